package fetcher

import (
	"context"
	"time"

	"gitstats/cache"
	"gitstats/models"
)

// Provider binds a source, a cache store and fetch options so callers can run
// the chain repeatedly. Each Fetch call is an independent run: concurrent
// calls are neither deduplicated nor ordered.
type Provider struct {
	source  Source
	store   cache.Store
	options models.FetchOptions
	now     Clock
}

// NewProvider returns a Provider. A nil store disables the cache tier.
func NewProvider(source Source, store cache.Store, opts models.FetchOptions) *Provider {
	if store == nil {
		store = cache.NoopStore{}
	}
	return &Provider{
		source:  source,
		store:   store,
		options: opts.WithDefaults(),
		now:     time.Now,
	}
}

// WithClock returns a copy of the provider that reads time from now
func (p *Provider) WithClock(now Clock) *Provider {
	cp := *p
	cp.now = now
	return &cp
}

// Options returns the effective fetch options
func (p *Provider) Options() models.FetchOptions {
	return p.options
}

// Store returns the cache store backing the provider
func (p *Provider) Store() cache.Store {
	return p.store
}

// Fetch runs the fallback chain once
func (p *Provider) Fetch(ctx context.Context) models.DataResult {
	return fetch(ctx, p.options, p.source, p.store, p.now)
}

// Cached returns the current cache entry for the provider's key
func (p *Provider) Cached(ctx context.Context) (*models.CachedStats, error) {
	return ReadCached(ctx, p.store, p.options.CacheKey)
}
