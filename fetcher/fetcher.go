// Package fetcher resolves a GitStatsData payload by walking the fallback
// chain network, cache, mock. The first tier that succeeds wins.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitstats/cache"
	"gitstats/logger"
	"gitstats/models"
)

// Tier errors recorded in DataResult.Failures
var (
	ErrNetworkTier = errors.New("network tier unavailable")
	ErrCacheTier   = errors.New("cache tier unavailable")
)

// Source defines the network retrieval needed by the fetcher
type Source interface {
	FetchStats(ctx context.Context, dataURL string) (*models.GitStatsData, error)
}

// Clock returns the current time. Tests replace it to pin cachedAt and the mock timestamps.
type Clock func() time.Time

// FetchGitStats runs the fallback chain with the wall clock. It never fails:
// the returned result always carries data.
func FetchGitStats(ctx context.Context, opts models.FetchOptions, src Source, store cache.Store) models.DataResult {
	return fetch(ctx, opts, src, store, time.Now)
}

func fetch(ctx context.Context, opts models.FetchOptions, src Source, store cache.Store, now Clock) models.DataResult {
	opts = opts.WithDefaults()
	if store == nil {
		store = cache.NoopStore{}
	}
	log := logger.Named("fetcher").With(
		zap.String("data_url", opts.DataURL),
		zap.String("cache_key", opts.CacheKey))

	var failures []error

	// 1. Network
	data, err := fetchNetwork(ctx, opts, src)
	if err == nil {
		if store.Persistent() {
			if err := writeCache(ctx, store, opts.CacheKey, data, now()); err != nil {
				log.Warn("Failed to cache fetched stats", zap.Error(err))
				failures = append(failures, err)
			}
		}
		log.Info("Resolved stats from network")
		return models.DataResult{
			Data:     data,
			Source:   models.SourceStatic,
			IsDummy:  data.Metadata.IsDummy,
			Failures: failures,
		}
	}
	log.Warn("Failed to fetch stats from network", zap.Error(err))
	failures = append(failures, err)

	// 2. Cache
	if opts.StaleCacheAllowed() && store.Persistent() {
		data, err := readCache(ctx, store, opts.CacheKey)
		if err == nil {
			log.Info("Resolved stats from cache")
			return models.DataResult{
				Data:     data,
				Source:   models.SourceCache,
				IsDummy:  data.Metadata.IsDummy,
				Failures: failures,
			}
		}
		if errors.Is(err, cache.ErrNotFound) {
			log.Debug("No cached stats available")
		} else {
			log.Warn("Failed to load stats from cache", zap.Error(err))
		}
		failures = append(failures, err)
	}

	// 3. Mock
	log.Info("Falling back to mock stats")
	return models.DataResult{
		Data:     MockData(now()),
		Source:   models.SourceMock,
		IsDummy:  false,
		Failures: failures,
	}
}

func fetchNetwork(ctx context.Context, opts models.FetchOptions, src Source) (*models.GitStatsData, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrNetworkTier)
	}
	data, err := src.FetchStats(ctx, opts.DataURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkTier, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrNetworkTier)
	}
	return data, nil
}

// writeCache stores data annotated with cachedAt under key
func writeCache(ctx context.Context, store cache.Store, key string, data *models.GitStatsData, at time.Time) error {
	raw, err := json.Marshal(models.CachedStats{GitStatsData: *data, CachedAt: at.UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to encode stats for cache: %w", err)
	}
	return store.Set(ctx, key, string(raw))
}

// readCache loads the entry under key. The cachedAt annotation is dropped and
// never compared against a TTL.
func readCache(ctx context.Context, store cache.Store, key string) (*models.GitStatsData, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheTier, err)
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: %w", ErrCacheTier, cache.ErrNotFound)
	}

	var entry models.CachedStats
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("%w: corrupt entry: %w", ErrCacheTier, err)
	}
	return &entry.GitStatsData, nil
}

// ReadCached returns the cached payload and its cachedAt time (epoch ms), for
// callers that want to inspect the cache directly.
func ReadCached(ctx context.Context, store cache.Store, key string) (*models.CachedStats, error) {
	if key == "" {
		key = models.DefaultCacheKey
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var entry models.CachedStats
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return &entry, nil
}

// MockData is the minimal last-resort payload: one profile with an empty calendar
func MockData(now time.Time) *models.GitStatsData {
	return &models.GitStatsData{
		LastUpdated: now.UTC().Format(time.RFC3339Nano),
		Profiles: []models.Profile{
			{
				Username: "mockuser",
				Platform: models.PlatformGitHub,
				Stats: models.ProfileStats{
					ProjectCount:  30,
					CommitCount:   2500,
					Contributions: []models.ContributionWeek{},
				},
			},
		},
		Totals: models.StatsTotals{
			ProjectCount: 30,
			CommitCount:  2500,
		},
		Metadata: models.StatsMetadata{
			Source:    string(models.SourceMock),
			FetchedAt: now.UnixMilli(),
		},
	}
}
