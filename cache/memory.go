package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in a map for the lifetime of the process
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrClosed
	}
	value, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) Persistent() bool { return true }

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.entries = nil
	m.mu.Unlock()
	return nil
}

// NoopStore never holds anything. It is what a host without persistent
// storage gets, and makes the fetcher go straight from network to mock.
type NoopStore struct{}

var _ Store = NoopStore{}

func (NoopStore) Get(context.Context, string) (string, error) { return "", ErrNotFound }
func (NoopStore) Set(context.Context, string, string) error   { return nil }
func (NoopStore) Delete(context.Context, string) error        { return nil }
func (NoopStore) Persistent() bool                            { return false }
func (NoopStore) Close() error                                { return nil }
