package dto

// FavoritesResponse - wire shape of GET /api/favorites: {"data": ["FRA", ...]}.
type FavoritesResponse struct {
	Data []string `json:"data"`
}
