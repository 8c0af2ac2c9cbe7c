package usecase

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/pkg/errors"
)

// FavoritesUseCase - per-user favorite country codes.
type FavoritesUseCase struct {
	favoriteRepo repository.FavoriteRepository
	logger       *zap.Logger
}

func NewFavoritesUseCase(
	favoriteRepo repository.FavoriteRepository,
	logger *zap.Logger,
) *FavoritesUseCase {
	return &FavoritesUseCase{
		favoriteRepo: favoriteRepo,
		logger:       logger,
	}
}

func (uc *FavoritesUseCase) List(ctx context.Context, userID string) ([]string, error) {
	return uc.favoriteRepo.List(ctx, userID)
}

func (uc *FavoritesUseCase) Add(ctx context.Context, userID, code string) error {
	code, err := normalizeCode(code)
	if err != nil {
		return err
	}
	return uc.favoriteRepo.Add(ctx, userID, code)
}

func (uc *FavoritesUseCase) Remove(ctx context.Context, userID, code string) error {
	code, err := normalizeCode(code)
	if err != nil {
		return err
	}
	return uc.favoriteRepo.Remove(ctx, userID, code)
}

// normalizeCode upper-cases an ISO alpha-3 code and rejects anything else.
func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", errors.ErrValidation.WithDetails(map[string]interface{}{"code": code})
	}
	for _, r := range code {
		if !unicode.IsUpper(r) || r > unicode.MaxASCII {
			return "", errors.ErrValidation.WithDetails(map[string]interface{}{"code": code})
		}
	}
	return code, nil
}
