package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/usecase/dto"
)

// DirectoryUseCase - cached access to the public country directory. Redis
// sits in front of the upstream so API restarts and many browser clients do
// not translate into upstream traffic.
type DirectoryUseCase struct {
	directoryRepo repository.DirectoryRepository
	cacheRepo     repository.CacheRepository
	logger        *zap.Logger
	countriesTTL  time.Duration
	geometryTTL   time.Duration
}

func NewDirectoryUseCase(
	directoryRepo repository.DirectoryRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	countriesTTL time.Duration,
	geometryTTL time.Duration,
) *DirectoryUseCase {
	return &DirectoryUseCase{
		directoryRepo: directoryRepo,
		cacheRepo:     cacheRepo,
		logger:        logger,
		countriesTTL:  countriesTTL,
		geometryTTL:   geometryTTL,
	}
}

// GetCountries returns the full sorted collection, cache-first.
func (uc *DirectoryUseCase) GetCountries(ctx context.Context) ([]domain.Country, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetCountries(ctx)
		if err != nil {
			uc.logger.Warn("Countries cache read failed", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	countries, err := uc.directoryRepo.LoadAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to load country collection", zap.Error(err))
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetCountries(ctx, countries, uc.countriesTTL); err != nil {
			uc.logger.Warn("Countries cache write failed", zap.Error(err))
		}
	}

	return countries, nil
}

// GetDetail resolves one country plus its boundary polygon. The detail and
// geometry fetches run in parallel; a geometry failure degrades to a detail
// without polygon instead of failing the request.
func (uc *DirectoryUseCase) GetDetail(ctx context.Context, code string) (*dto.CountryDetailResponse, error) {
	var (
		wg     sync.WaitGroup
		detail *domain.CountryDetail
		fc     *domain.FeatureCollection
		detErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detErr = uc.directoryRepo.LoadDetail(ctx, code)
	}()
	go func() {
		defer wg.Done()
		var geoErr error
		fc, geoErr = uc.GetGeometry(ctx)
		if geoErr != nil {
			uc.logger.Warn("Geometry fetch failed, rendering without boundary",
				zap.String("code", code),
				zap.Error(geoErr))
		}
	}()
	wg.Wait()

	if detErr != nil {
		return nil, detErr
	}

	resp := &dto.CountryDetailResponse{CountryDetail: *detail}
	if fc != nil {
		resp.Boundary = fc.FeatureByCode(detail.Code)
	}

	return resp, nil
}

// GetGeometry returns the shared boundary dataset, cache-first.
func (uc *DirectoryUseCase) GetGeometry(ctx context.Context) (*domain.FeatureCollection, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetGeometry(ctx)
		if err != nil {
			uc.logger.Warn("Geometry cache read failed", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	fc, err := uc.directoryRepo.LoadGeometry(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetGeometry(ctx, fc, uc.geometryTTL); err != nil {
			uc.logger.Warn("Geometry cache write failed", zap.Error(err))
		}
	}

	return fc, nil
}
