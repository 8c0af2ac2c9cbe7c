package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain/repository"
	apperrors "github.com/country-explorer/internal/pkg/errors"
)

type favoriteRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewFavoriteRepository(db *DB, logger *zap.Logger) repository.FavoriteRepository {
	return &favoriteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *favoriteRepository) List(ctx context.Context, userID string) ([]string, error) {
	codes := make([]string, 0)
	query := `SELECT country_code FROM favorites WHERE user_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &codes, query, userID); err != nil {
		r.logger.Error("Failed to list favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return codes, nil
}

// Add is idempotent: re-adding an existing favorite is a no-op.
func (r *favoriteRepository) Add(ctx context.Context, userID, code string) error {
	query := `
		INSERT INTO favorites (user_id, country_code)
		VALUES ($1, $2)
		ON CONFLICT (user_id, country_code) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, code); err != nil {
		r.logger.Error("Failed to add favorite",
			zap.String("user_id", userID),
			zap.String("code", code),
			zap.Error(err))
		return apperrors.ErrDatabaseError
	}

	return nil
}

// Remove of an absent code succeeds: the end state is what the caller asked for.
func (r *favoriteRepository) Remove(ctx context.Context, userID, code string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND country_code = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, code); err != nil {
		r.logger.Error("Failed to remove favorite",
			zap.String("user_id", userID),
			zap.String("code", code),
			zap.Error(err))
		return apperrors.ErrDatabaseError
	}

	return nil
}
