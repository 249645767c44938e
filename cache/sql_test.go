package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a new SQLStore backed by sqlmock
func setupTestStore(t *testing.T, backend Backend) (*SQLStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	driver, err := driverName(backend)
	require.NoError(t, err)

	store := newSQLStore(sqlx.NewDb(db, driver), backend, DefaultTableName)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	cleanup := func() {
		_ = store.Close()
	}
	return store, mock, cleanup
}

func TestSQLStoreGet(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		mockSetup   func(sqlmock.Sqlmock)
		expected    string
		expectedErr error
	}{
		{
			name: "successful retrieval",
			key:  "git_stats_cache",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"cache_value"}).AddRow(`{"lastUpdated":"2024-01-01T00:00:00Z"}`)
				mock.ExpectPrepare("SELECT cache_value FROM git_stats_cache").
					ExpectQuery().
					WithArgs("git_stats_cache").
					WillReturnRows(rows)
			},
			expected: `{"lastUpdated":"2024-01-01T00:00:00Z"}`,
		},
		{
			name: "entry not found",
			key:  "missing",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT cache_value FROM git_stats_cache").
					ExpectQuery().
					WithArgs("missing").
					WillReturnRows(sqlmock.NewRows([]string{"cache_value"}))
			},
			expectedErr: ErrNotFound,
		},
		{
			name: "query failure",
			key:  "git_stats_cache",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT cache_value FROM git_stats_cache").
					ExpectQuery().
					WithArgs("git_stats_cache").
					WillReturnError(sql.ErrConnDone)
			},
			expectedErr: sql.ErrConnDone,
		},
		{
			name:        "empty key",
			key:         "",
			mockSetup:   func(mock sqlmock.Sqlmock) {},
			expectedErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestStore(t, BackendPostgres)
			defer cleanup()

			tt.mockSetup(mock)

			value, err := store.Get(context.Background(), tt.key)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, value)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStoreSet(t *testing.T) {
	tests := []struct {
		name        string
		backend     Backend
		key         string
		value       string
		mockSetup   func(sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name:    "postgres upsert",
			backend: BackendPostgres,
			key:     "git_stats_cache",
			value:   `{"profiles":[]}`,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("INSERT INTO git_stats_cache .* ON CONFLICT").
					ExpectExec().
					WithArgs("git_stats_cache", `{"profiles":[]}`, int64(1700000000000)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name:    "mysql upsert",
			backend: BackendMySQL,
			key:     "git_stats_cache",
			value:   `{"profiles":[]}`,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("INSERT INTO git_stats_cache .* ON DUPLICATE KEY UPDATE").
					ExpectExec().
					WithArgs("git_stats_cache", `{"profiles":[]}`, int64(1700000000000)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name:    "exec failure",
			backend: BackendSQLite,
			key:     "git_stats_cache",
			value:   "{}",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("INSERT INTO git_stats_cache").
					ExpectExec().
					WillReturnError(sql.ErrTxDone)
			},
			expectedErr: sql.ErrTxDone,
		},
		{
			name:        "empty key",
			backend:     BackendPostgres,
			key:         "",
			value:       "{}",
			mockSetup:   func(mock sqlmock.Sqlmock) {},
			expectedErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestStore(t, tt.backend)
			defer cleanup()

			tt.mockSetup(mock)

			err := store.Set(context.Background(), tt.key, tt.value)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStoreReusesPreparedStatements(t *testing.T) {
	store, mock, cleanup := setupTestStore(t, BackendPostgres)
	defer cleanup()

	prep := mock.ExpectPrepare("INSERT INTO git_stats_cache")
	prep.ExpectExec().WithArgs("a", "1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("a", "2", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Set(context.Background(), "a", "1"))
	require.NoError(t, store.Set(context.Background(), "a", "2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreDelete(t *testing.T) {
	store, mock, cleanup := setupTestStore(t, BackendPostgres)
	defer cleanup()

	mock.ExpectPrepare("DELETE FROM git_stats_cache").
		ExpectExec().
		WithArgs("git_stats_cache").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Delete(context.Background(), "git_stats_cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenSQLRejectsBadTableName(t *testing.T) {
	_, err := OpenSQL(context.Background(), BackendSQLite, "", "stats; DROP TABLE x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOpenSQLRequiresDSN(t *testing.T) {
	_, err := OpenSQL(context.Background(), BackendPostgres, "", DefaultTableName)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	store, err := OpenSQL(ctx, BackendSQLite, path, DefaultTableName)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "git_stats_cache")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "git_stats_cache", "first"))
	require.NoError(t, store.Set(ctx, "git_stats_cache", "second"))

	value, err := store.Get(ctx, "git_stats_cache")
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	require.NoError(t, store.Delete(ctx, "git_stats_cache"))
	_, err = store.Get(ctx, "git_stats_cache")
	assert.ErrorIs(t, err, ErrNotFound)
}
