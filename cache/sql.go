package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"gitstats/logger"
)

// DefaultTableName is the table every SQL backend keeps its entries in
const DefaultTableName = "git_stats_cache"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// SQLStore persists entries in a single key/value table on SQLite, PostgreSQL or MySQL
type SQLStore struct {
	conn    *sqlx.DB
	backend Backend
	table   string
	now     func() time.Time
	// Prepared statements cache
	stmtCache struct {
		sync.RWMutex
		statements map[string]*sqlx.Stmt
	}
}

var _ Store = (*SQLStore)(nil)

// DefaultSQLitePath returns the cache file used when the sqlite backend has no DSN
func DefaultSQLitePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "gitstats", "cache.db")
}

func driverName(backend Backend) (string, error) {
	switch backend {
	case BackendSQLite:
		return "sqlite", nil
	case BackendPostgres:
		return "postgres", nil
	case BackendMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("%w: %q is not an SQL backend", ErrUnsupportedBackend, backend)
	}
}

// OpenSQL connects to the database, creates the cache table if needed and
// returns the store.
func OpenSQL(ctx context.Context, backend Backend, dsn, table string) (*SQLStore, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: table name %q", ErrInvalidInput, table)
	}

	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	if backend == BackendSQLite {
		if dsn == "" {
			dsn = DefaultSQLitePath()
		}
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
				return nil, fmt.Errorf("failed to create cache dir: %w", err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
		}
	} else if dsn == "" {
		return nil, fmt.Errorf("%w: %s backend requires a DSN", ErrInvalidInput, backend)
	}

	log := logger.Named("cache")
	log.Info("Connecting to cache database", zap.String("backend", string(backend)), zap.String("table", table))

	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseConnection, err)
	}

	if backend == BackendSQLite {
		// Avoid "database is locked" under concurrent writers
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(5)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	store := newSQLStore(conn, backend, table)
	if err := store.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info("Cache database ready", zap.String("backend", string(backend)))
	return store, nil
}

func newSQLStore(conn *sqlx.DB, backend Backend, table string) *SQLStore {
	s := &SQLStore{
		conn:    conn,
		backend: backend,
		table:   table,
		now:     time.Now,
	}
	s.stmtCache.statements = make(map[string]*sqlx.Stmt)
	return s
}

func (s *SQLStore) createTableQuery() string {
	switch s.backend {
	case BackendMySQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGTEXT NOT NULL,
				cached_at BIGINT NOT NULL
			)`, s.table)
	case BackendPostgres:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value TEXT NOT NULL,
				cached_at BIGINT NOT NULL
			)`, s.table)
	default:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value TEXT NOT NULL,
				cached_at INTEGER NOT NULL
			)`, s.table)
	}
}

func (s *SQLStore) upsertQuery() string {
	if s.backend == BackendMySQL {
		return fmt.Sprintf(`
			INSERT INTO %s (cache_key, cache_value, cached_at)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE
				cache_value = VALUES(cache_value),
				cached_at = VALUES(cached_at)`, s.table)
	}
	// SQLite and PostgreSQL share the ON CONFLICT form
	return fmt.Sprintf(`
		INSERT INTO %s (cache_key, cache_value, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			cache_value = excluded.cache_value,
			cached_at = excluded.cached_at`, s.table)
}

func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, s.createTableQuery()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// getStmt returns a prepared statement from cache or creates a new one
func (s *SQLStore) getStmt(ctx context.Context, query string) (*sqlx.Stmt, error) {
	query = s.conn.Rebind(query)

	s.stmtCache.RLock()
	stmt, exists := s.stmtCache.statements[query]
	s.stmtCache.RUnlock()

	if exists {
		return stmt, nil
	}

	s.stmtCache.Lock()
	defer s.stmtCache.Unlock()

	// Double-check after acquiring write lock
	if stmt, exists = s.stmtCache.statements[query]; exists {
		return stmt, nil
	}

	stmt, err := s.conn.PreparexContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	s.stmtCache.statements[query] = stmt
	return stmt, nil
}

// Get retrieves the value stored under key
func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: cache key cannot be empty", ErrInvalidInput)
	}

	stmt, err := s.getStmt(ctx, fmt.Sprintf(`SELECT cache_value FROM %s WHERE cache_key = ?`, s.table))
	if err != nil {
		return "", err
	}

	var value string
	if err := stmt.GetContext(ctx, &value, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: cache key cannot be empty", ErrInvalidInput)
	}

	stmt, err := s.getStmt(ctx, s.upsertQuery())
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, key, value, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	logger.Named("cache").Debug("Cache entry stored",
		zap.String("cache_key", key),
		zap.Int("bytes", len(value)))
	return nil
}

// Delete removes the entry stored under key
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("%w: cache key cannot be empty", ErrInvalidInput)
	}

	stmt, err := s.getStmt(ctx, fmt.Sprintf(`DELETE FROM %s WHERE cache_key = ?`, s.table))
	if err != nil {
		return err
	}
	if _, err := stmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Persistent() bool { return true }

// Close closes the prepared statements and the database connection
func (s *SQLStore) Close() error {
	s.stmtCache.Lock()
	for _, stmt := range s.stmtCache.statements {
		_ = stmt.Close()
	}
	s.stmtCache.statements = make(map[string]*sqlx.Stmt)
	s.stmtCache.Unlock()

	return s.conn.Close()
}
