package directory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/config"
	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/pkg/errors"
	"github.com/country-explorer/internal/worker/directory"
)

type stubDirectory struct {
	countries []domain.Country
	fc        *domain.FeatureCollection
	err       error
}

func (s *stubDirectory) LoadAll(context.Context) ([]domain.Country, error) {
	return s.countries, s.err
}

func (s *stubDirectory) LoadByCodes(context.Context, []string) ([]domain.Country, error) {
	return s.countries, s.err
}

func (s *stubDirectory) LoadDetail(context.Context, string) (*domain.CountryDetail, error) {
	return nil, s.err
}

func (s *stubDirectory) LoadGeometry(context.Context) (*domain.FeatureCollection, error) {
	return s.fc, s.err
}

type recordingCache struct {
	mu        sync.Mutex
	countries [][]domain.Country
	geometry  []*domain.FeatureCollection
}

func (c *recordingCache) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (c *recordingCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *recordingCache) Delete(context.Context, string) error { return nil }

func (c *recordingCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (c *recordingCache) GetCountries(context.Context) ([]domain.Country, error) { return nil, nil }

func (c *recordingCache) GetGeometry(context.Context) (*domain.FeatureCollection, error) {
	return nil, nil
}

func (c *recordingCache) SetCountries(_ context.Context, countries []domain.Country, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countries = append(c.countries, countries)
	return nil
}

func (c *recordingCache) SetGeometry(_ context.Context, fc *domain.FeatureCollection, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geometry = append(c.geometry, fc)
	return nil
}

func (c *recordingCache) writes() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.countries), len(c.geometry)
}

func cacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		CountriesCacheTTL: time.Hour,
		GeometryCacheTTL:  time.Hour,
	}
}

func TestRefreshWorkerWarmsCache(t *testing.T) {
	source := &stubDirectory{
		countries: []domain.Country{{Code: "FRA"}, {Code: "DEU"}},
		fc:        &domain.FeatureCollection{Type: "FeatureCollection"},
	}
	cache := &recordingCache{}
	w := directory.NewRefreshWorker(
		func() repository.DirectoryRepository { return source },
		cache,
		cacheConfig(),
		time.Hour,
		zap.NewNop(),
	)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	// The first refresh runs before the first tick.
	require.Eventually(t, func() bool {
		countries, geometry := cache.writes()
		return countries == 1 && geometry == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, <-done)

	assert.Len(t, cache.countries[0], 2)
}

func TestRefreshWorkerKeepsCacheOnFailure(t *testing.T) {
	source := &stubDirectory{err: errors.ErrNetworkFailure}
	cache := &recordingCache{}
	w := directory.NewRefreshWorker(
		func() repository.DirectoryRepository { return source },
		cache,
		cacheConfig(),
		time.Hour,
		zap.NewNop(),
	)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	// Give the initial refresh a moment to fail.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, <-done)

	countries, geometry := cache.writes()
	assert.Zero(t, countries)
	assert.Zero(t, geometry)
}

func TestRefreshWorkerStopsOnContextCancel(t *testing.T) {
	source := &stubDirectory{fc: &domain.FeatureCollection{}}
	cache := &recordingCache{}
	w := directory.NewRefreshWorker(
		func() repository.DirectoryRepository { return source },
		cache,
		cacheConfig(),
		time.Hour,
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
}
