package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/pkg/errors"
	"github.com/country-explorer/internal/usecase"
)

// MockFavoriteRepository is a mock of FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) List(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func TestFavoritesUseCase(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("codes are upper-cased before persistence", func(t *testing.T) {
		mockFavs := &MockFavoriteRepository{}
		mockFavs.On("Add", ctx, "user-1", "FRA").Return(nil)
		mockFavs.On("Remove", ctx, "user-1", "JPN").Return(nil)

		uc := usecase.NewFavoritesUseCase(mockFavs, logger)

		require.NoError(t, uc.Add(ctx, "user-1", "fra"))
		require.NoError(t, uc.Remove(ctx, "user-1", " jpn "))
		mockFavs.AssertExpectations(t)
	})

	t.Run("malformed codes are rejected without a repository call", func(t *testing.T) {
		mockFavs := &MockFavoriteRepository{}
		uc := usecase.NewFavoritesUseCase(mockFavs, logger)

		for _, code := range []string{"", "FR", "FRAN", "F1A", "日本国"} {
			err := uc.Add(ctx, "user-1", code)
			assert.ErrorIs(t, err, errors.ErrValidation, "code %q", code)
		}
		mockFavs.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("list passes through", func(t *testing.T) {
		mockFavs := &MockFavoriteRepository{}
		mockFavs.On("List", ctx, "user-1").Return([]string{"FRA", "JPN"}, nil)

		uc := usecase.NewFavoritesUseCase(mockFavs, logger)

		codes, err := uc.List(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"FRA", "JPN"}, codes)
	})
}
