package view

import (
	"sort"
	"strings"

	"github.com/country-explorer/internal/domain"
)

// Mode - which collection the browse surface shows.
type Mode string

const (
	ModeGrid      Mode = "grid"
	ModeMap       Mode = "map"
	ModeFavorites Mode = "favorites"
)

// State - what the surface should render besides the country list.
type State string

const (
	// StateReady - render the derived country list.
	StateReady State = "ready"
	// StateLoading - an input the current mode depends on has not arrived.
	StateLoading State = "loading"
	// StateEmpty - inputs are complete and the derived list is empty.
	StateEmpty State = "empty"
	// StateSignIn - the favorites view needs an active session.
	StateSignIn State = "sign_in"
)

// Sentinel filter values meaning "no constraint".
const (
	AllRegions   = "All Regions"
	AllLanguages = "All Languages"
)

// Regions - the fixed set offered by the region filter.
var Regions = []string{"Africa", "Americas", "Asia", "Europe", "Oceania"}

// Query - the user-chosen filters. Zero values and the sentinels both mean
// unfiltered.
type Query struct {
	Search   string
	Region   string
	Language string
	Mode     Mode
}

// Inputs - everything Derive reads. Collection and Favorites arrive from
// elsewhere; Derive itself never fetches.
type Inputs struct {
	Collection       []domain.Country
	CollectionLoaded bool

	Query Query

	SessionActive   bool
	FavoritesLoaded bool
	Favorites       map[string]struct{}
}

// Result - the derived list and the state governing how it renders.
type Result struct {
	State     State
	Countries []domain.Country
}

// Derive computes the visible country list from its inputs alone. All active
// filters apply together; a country appears only if it satisfies every one.
func Derive(in Inputs) Result {
	if in.Query.Mode == ModeFavorites {
		if !in.SessionActive {
			return Result{State: StateSignIn}
		}
		if !in.CollectionLoaded || !in.FavoritesLoaded {
			return Result{State: StateLoading}
		}
	} else if !in.CollectionLoaded {
		return Result{State: StateLoading}
	}

	out := make([]domain.Country, 0, len(in.Collection))
	for _, c := range in.Collection {
		if !matches(c, in) {
			continue
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return Result{State: StateEmpty, Countries: out}
	}
	return Result{State: StateReady, Countries: out}
}

func matches(c domain.Country, in Inputs) bool {
	q := in.Query

	// The favorites view shows the full favorite set; the other filters only
	// apply to grid and map.
	if q.Mode == ModeFavorites {
		_, ok := in.Favorites[c.Code]
		return ok
	}

	if q.Region != "" && q.Region != AllRegions && c.Region != q.Region {
		return false
	}

	if q.Language != "" && q.Language != AllLanguages && !c.HasLanguage(q.Language) {
		return false
	}

	if q.Search != "" && !matchesSearch(c, q.Search) {
		return false
	}

	return true
}

// matchesSearch checks the common name and the alternative spellings,
// case-insensitively.
func matchesSearch(c domain.Country, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name.Common), needle) {
		return true
	}
	for _, alt := range c.AltSpellings {
		if strings.Contains(strings.ToLower(alt), needle) {
			return true
		}
	}
	return false
}

// Languages collects the distinct language names across the collection,
// sorted, for the language filter options.
func Languages(collection []domain.Country) []string {
	seen := make(map[string]struct{})
	for _, c := range collection {
		for _, name := range c.Languages {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
