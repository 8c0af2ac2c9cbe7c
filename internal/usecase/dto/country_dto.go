package dto

import "github.com/country-explorer/internal/domain"

// CountryDetailResponse - one country with border summaries and, when the
// boundary dataset has a matching polygon, its GeoJSON feature. Boundary is
// nil both when the dataset lacks the country and when the geometry fetch
// failed: detail rendering never depends on it.
type CountryDetailResponse struct {
	domain.CountryDetail
	Boundary *domain.Feature `json:"boundary,omitempty"`
}
