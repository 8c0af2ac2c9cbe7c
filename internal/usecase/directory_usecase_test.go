package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/pkg/errors"
	"github.com/country-explorer/internal/usecase"
)

// MockDirectoryRepository is a mock of DirectoryRepository
type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) LoadAll(ctx context.Context) ([]domain.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockDirectoryRepository) LoadByCodes(ctx context.Context, codes []string) ([]domain.Country, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockDirectoryRepository) LoadDetail(ctx context.Context, code string) (*domain.CountryDetail, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CountryDetail), args.Error(1)
}

func (m *MockDirectoryRepository) LoadGeometry(ctx context.Context) (*domain.FeatureCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeatureCollection), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetCountries(ctx context.Context) ([]domain.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockCacheRepository) SetCountries(ctx context.Context, countries []domain.Country, ttl time.Duration) error {
	args := m.Called(ctx, countries, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetGeometry(ctx context.Context) (*domain.FeatureCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeatureCollection), args.Error(1)
}

func (m *MockCacheRepository) SetGeometry(ctx context.Context, fc *domain.FeatureCollection, ttl time.Duration) error {
	args := m.Called(ctx, fc, ttl)
	return args.Error(0)
}

func country(code, name, region string) domain.Country {
	return domain.Country{
		Code:   code,
		Name:   domain.CountryName{Common: name},
		Region: region,
	}
}

func TestDirectoryUseCase_GetCountries(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	collection := []domain.Country{country("FRA", "France", "Europe")}

	t.Run("cache hit skips upstream", func(t *testing.T) {
		mockDir := &MockDirectoryRepository{}
		mockCache := &MockCacheRepository{}
		mockCache.On("GetCountries", ctx).Return(collection, nil)

		uc := usecase.NewDirectoryUseCase(mockDir, mockCache, logger, time.Hour, time.Hour)

		got, err := uc.GetCountries(ctx)
		require.NoError(t, err)
		assert.Equal(t, collection, got)
		mockDir.AssertNotCalled(t, "LoadAll", mock.Anything)
	})

	t.Run("cache miss loads upstream and writes back", func(t *testing.T) {
		mockDir := &MockDirectoryRepository{}
		mockCache := &MockCacheRepository{}
		mockCache.On("GetCountries", ctx).Return(nil, nil)
		mockDir.On("LoadAll", ctx).Return(collection, nil)
		mockCache.On("SetCountries", ctx, collection, time.Hour).Return(nil)

		uc := usecase.NewDirectoryUseCase(mockDir, mockCache, logger, time.Hour, time.Hour)

		got, err := uc.GetCountries(ctx)
		require.NoError(t, err)
		assert.Equal(t, collection, got)
		mockCache.AssertExpectations(t)
	})
}

func TestDirectoryUseCase_GetDetail(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	detail := &domain.CountryDetail{Country: country("FRA", "France", "Europe")}
	fc := &domain.FeatureCollection{
		Type: "FeatureCollection",
		Features: []domain.Feature{
			{
				Type:       "Feature",
				Properties: map[string]string{"ISO_A3": "FRA"},
				Geometry:   json.RawMessage(`{"type":"Polygon","coordinates":[]}`),
			},
		},
	}

	t.Run("boundary attached when geometry has the country", func(t *testing.T) {
		mockDir := &MockDirectoryRepository{}
		mockCache := &MockCacheRepository{}
		mockDir.On("LoadDetail", ctx, "FRA").Return(detail, nil)
		mockCache.On("GetGeometry", ctx).Return(fc, nil)

		uc := usecase.NewDirectoryUseCase(mockDir, mockCache, logger, time.Hour, time.Hour)

		resp, err := uc.GetDetail(ctx, "FRA")
		require.NoError(t, err)
		assert.Equal(t, "FRA", resp.Code)
		require.NotNil(t, resp.Boundary)
		assert.Equal(t, "FRA", resp.Boundary.Properties["ISO_A3"])
	})

	t.Run("geometry failure degrades instead of failing", func(t *testing.T) {
		mockDir := &MockDirectoryRepository{}
		mockCache := &MockCacheRepository{}
		mockDir.On("LoadDetail", ctx, "FRA").Return(detail, nil)
		mockCache.On("GetGeometry", ctx).Return(nil, nil)
		mockDir.On("LoadGeometry", ctx).Return(nil, errors.ErrNetworkFailure)

		uc := usecase.NewDirectoryUseCase(mockDir, mockCache, logger, time.Hour, time.Hour)

		resp, err := uc.GetDetail(ctx, "FRA")
		require.NoError(t, err)
		assert.Equal(t, "FRA", resp.Code)
		assert.Nil(t, resp.Boundary)
	})

	t.Run("detail not found propagates", func(t *testing.T) {
		mockDir := &MockDirectoryRepository{}
		mockCache := &MockCacheRepository{}
		mockDir.On("LoadDetail", ctx, "XXX").Return(nil, errors.ErrCountryNotFound)
		mockCache.On("GetGeometry", ctx).Return(fc, nil)

		uc := usecase.NewDirectoryUseCase(mockDir, mockCache, logger, time.Hour, time.Hour)

		_, err := uc.GetDetail(ctx, "XXX")
		assert.ErrorIs(t, err, errors.ErrCountryNotFound)
	})
}
