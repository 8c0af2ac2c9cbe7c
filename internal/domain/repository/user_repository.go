package repository

import (
	"context"

	"github.com/country-explorer/internal/domain"
)

// UserRepository - persistence for registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
