package repository

import "context"

// FavoriteRepository - per-user favorite country codes.
// Add is idempotent; Remove of an absent code is not an error.
type FavoriteRepository interface {
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, code string) error
	Remove(ctx context.Context, userID, code string) error
}
