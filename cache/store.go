// Package cache provides the key/value stores the fetcher persists the last
// successfully fetched payload into.
package cache

import (
	"context"
	"fmt"
)

// Store is a string-keyed, overwrite-only cache. Implementations must be safe
// for concurrent use; concurrent writers to one key resolve last-write-wins.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Persistent reports whether the store can hold entries at all. Callers
	// skip both reads and writes on a non-persistent store.
	Persistent() bool
	Close() error
}

// Backend names a Store implementation
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendNone     Backend = "none"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
)

// Valid reports whether b names a known backend
func (b Backend) Valid() bool {
	switch b {
	case BackendMemory, BackendNone, BackendSQLite, BackendPostgres, BackendMySQL:
		return true
	}
	return false
}

// NeedsDSN reports whether the backend requires a connection string
func (b Backend) NeedsDSN() bool {
	return b == BackendPostgres || b == BackendMySQL
}

// New opens the store for backend. dsn is a file path for sqlite (empty means
// DefaultSQLitePath) and a driver connection string for postgres and mysql.
func New(ctx context.Context, backend Backend, dsn string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendNone:
		return NoopStore{}, nil
	case BackendSQLite, BackendPostgres, BackendMySQL:
		return OpenSQL(ctx, backend, dsn, DefaultTableName)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}
