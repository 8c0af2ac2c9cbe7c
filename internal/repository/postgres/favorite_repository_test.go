package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/repository/postgres"
)

func newMockDB(t *testing.T) (*postgres.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return postgres.NewDBForTest(sqlx.NewDb(mockDB, "sqlmock"), zap.NewNop()), mock
}

func TestFavoriteRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFavoriteRepository(db, zap.NewNop())

	t.Run("returns codes in insertion order", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"country_code"}).
			AddRow("FRA").
			AddRow("JPN")
		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT country_code FROM favorites WHERE user_id = $1 ORDER BY created_at`)).
			WithArgs("user-1").
			WillReturnRows(rows)

		codes, err := repo.List(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"FRA", "JPN"}, codes)
	})

	t.Run("empty set is a non-nil empty slice", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT country_code FROM favorites WHERE user_id = $1 ORDER BY created_at`)).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows([]string{"country_code"}))

		codes, err := repo.List(context.Background(), "user-2")
		require.NoError(t, err)
		assert.NotNil(t, codes)
		assert.Empty(t, codes)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_AddRemove(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFavoriteRepository(db, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO favorites`)).
		WithArgs("user-1", "FRA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Add(context.Background(), "user-1", "FRA"))

	// Re-adding hits ON CONFLICT DO NOTHING and still succeeds.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO favorites`)).
		WithArgs("user-1", "FRA").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Add(context.Background(), "user-1", "FRA"))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM favorites WHERE user_id = $1 AND country_code = $2`)).
		WithArgs("user-1", "FRA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Remove(context.Background(), "user-1", "FRA"))

	// Removing an absent code is not an error.
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM favorites WHERE user_id = $1 AND country_code = $2`)).
		WithArgs("user-1", "XXX").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Remove(context.Background(), "user-1", "XXX"))

	require.NoError(t, mock.ExpectationsWereMet())
}
