package repository

import (
	"context"

	"github.com/country-explorer/internal/domain"
)

// DirectoryRepository - read-only access to the external country directory.
type DirectoryRepository interface {
	// LoadAll returns the full collection sorted by common name.
	LoadAll(ctx context.Context) ([]domain.Country, error)

	// LoadByCodes resolves several countries in one batched call.
	LoadByCodes(ctx context.Context, codes []string) ([]domain.Country, error)

	// LoadDetail resolves one country plus its border summaries.
	LoadDetail(ctx context.Context, code string) (*domain.CountryDetail, error)

	// LoadGeometry fetches the shared boundary polygon dataset.
	LoadGeometry(ctx context.Context) (*domain.FeatureCollection, error)
}
