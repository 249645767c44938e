package cache

import "fmt"

// Common errors
var (
	ErrNotFound           = fmt.Errorf("cache entry not found")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrUnsupportedBackend = fmt.Errorf("unsupported cache backend")
	ErrDatabaseConnection = fmt.Errorf("cache database connection error")
	ErrClosed             = fmt.Errorf("cache store closed")
)
