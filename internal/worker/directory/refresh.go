package directory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/config"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/worker"
)

// ClientFactory builds a fresh directory client. The client memoizes the
// collection for its own lifetime, so each refresh cycle uses a new one to
// force a real upstream fetch.
type ClientFactory func() repository.DirectoryRepository

// RefreshWorker keeps the shared cache warm: on an interval it refetches the
// country collection and the boundary dataset from the public directory and
// rewrites the cache entries before their TTL lapses.
type RefreshWorker struct {
	*worker.BaseWorker
	newClient ClientFactory
	cacheRepo repository.CacheRepository
	cacheCfg  *config.CacheConfig
	interval  time.Duration
}

func NewRefreshWorker(
	newClient ClientFactory,
	cacheRepo repository.CacheRepository,
	cacheCfg *config.CacheConfig,
	interval time.Duration,
	logger *zap.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		BaseWorker: worker.NewBaseWorker("directory-refresh", logger),
		newClient:  newClient,
		cacheRepo:  cacheRepo,
		cacheCfg:   cacheCfg,
		interval:   interval,
	}
}

// Start runs one refresh immediately, then repeats on the interval.
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RefreshWorker",
		zap.Duration("interval", w.interval))

	if err := w.refresh(ctx); err != nil {
		logger.Error("Initial refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				logger.Error("Refresh failed, keeping previous cache entries",
					zap.Error(err))
			}
		}
	}
}

// refresh fetches both datasets and rewrites the cache. A failure on either
// dataset leaves its previous cache entry in place.
func (w *RefreshWorker) refresh(ctx context.Context) error {
	logger := w.Logger()
	client := w.newClient()

	started := time.Now()

	countries, err := client.LoadAll(ctx)
	if err != nil {
		return err
	}
	if err := w.cacheRepo.SetCountries(ctx, countries, w.cacheCfg.CountriesCacheTTL); err != nil {
		return err
	}

	fc, err := client.LoadGeometry(ctx)
	if err != nil {
		return err
	}
	if err := w.cacheRepo.SetGeometry(ctx, fc, w.cacheCfg.GeometryCacheTTL); err != nil {
		return err
	}

	logger.Info("Directory cache refreshed",
		zap.Int("countries", len(countries)),
		zap.Int("features", len(fc.Features)),
		zap.Duration("took", time.Since(started)))

	return nil
}
