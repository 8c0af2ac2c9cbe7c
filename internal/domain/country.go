package domain

import "encoding/json"

// Country - normalized record for one nation as served by the public
// directory. Code (cca3) is the primary key and unique across the collection.
type Country struct {
	Code         string              `json:"cca3"`
	Name         CountryName         `json:"name"`
	Region       string              `json:"region"`
	Subregion    string              `json:"subregion,omitempty"`
	Capital      []string            `json:"capital,omitempty"`
	Population   int64               `json:"population"`
	Languages    map[string]string   `json:"languages,omitempty"`
	Currencies   map[string]Currency `json:"currencies,omitempty"`
	Flags        Flags               `json:"flags"`
	LatLng       []float64           `json:"latlng,omitempty"`
	CapitalInfo  CapitalInfo         `json:"capitalInfo,omitempty"`
	Borders      []string            `json:"borders,omitempty"`
	AltSpellings []string            `json:"altSpellings,omitempty"`
	Area         float64             `json:"area,omitempty"`
	Timezones    []string            `json:"timezones,omitempty"`
	TLD          []string            `json:"tld,omitempty"`
	Car          Car                 `json:"car,omitempty"`
	UNMember     bool                `json:"unMember"`
}

type CountryName struct {
	Common     string                `json:"common"`
	Official   string                `json:"official"`
	NativeName map[string]NativeName `json:"nativeName,omitempty"`
}

type NativeName struct {
	Official string `json:"official"`
	Common   string `json:"common"`
}

type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

type Flags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}

type CapitalInfo struct {
	LatLng []float64 `json:"latlng,omitempty"`
}

type Car struct {
	Side string `json:"side,omitempty"`
}

// CountryDetail - single country together with summaries of its neighbours,
// resolved in one batched lookup so the border list renders without N calls.
type CountryDetail struct {
	Country
	BorderDetails []Country `json:"borderDetails,omitempty"`
}

// LanguageNames returns the display names of the country's languages.
func (c *Country) LanguageNames() []string {
	if len(c.Languages) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.Languages))
	for _, name := range c.Languages {
		names = append(names, name)
	}
	return names
}

// HasLanguage reports whether the country lists the given language display name.
func (c *Country) HasLanguage(name string) bool {
	for _, lang := range c.Languages {
		if lang == name {
			return true
		}
	}
	return false
}

// FeatureCollection - static GeoJSON boundary dataset shared by all countries.
// Geometry payloads are kept raw; only feature properties are inspected.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Geometry   json.RawMessage   `json:"geometry"`
}

// FeatureByCode locates the polygon feature whose ISO alpha-3 property matches
// the given country code. A missing feature is not an error: the caller
// renders without a boundary polygon.
func (fc *FeatureCollection) FeatureByCode(code string) *Feature {
	for i := range fc.Features {
		if fc.Features[i].Properties["ISO_A3"] == code {
			return &fc.Features[i]
		}
	}
	return nil
}
