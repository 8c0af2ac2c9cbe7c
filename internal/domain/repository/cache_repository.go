package repository

import (
	"context"
	"time"

	"github.com/country-explorer/internal/domain"
)

// CacheRepository - TTL cache in front of the public country directory.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	GetCountries(ctx context.Context) ([]domain.Country, error)
	SetCountries(ctx context.Context, countries []domain.Country, ttl time.Duration) error
	GetGeometry(ctx context.Context) (*domain.FeatureCollection, error)
	SetGeometry(ctx context.Context, fc *domain.FeatureCollection, ttl time.Duration) error
}
