package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitstats/cache"
	"gitstats/client"
	"gitstats/config"
	"gitstats/fetcher"
	"gitstats/logger"
	"gitstats/models"
	"gitstats/server"
)

// StatsFetcher runs the fallback chain (for testability)
type StatsFetcher interface {
	Fetch(ctx context.Context) models.DataResult
}

// Service errors
var (
	ErrServiceInit     = fmt.Errorf("service initialization error")
	ErrServiceShutdown = fmt.Errorf("service shutdown error")
)

// ShutdownTimeout bounds how long in-flight requests get on shutdown
const ShutdownTimeout = 10 * time.Second

// Service owns the cache store, the provider and the demo HTTP server
type Service struct {
	config   *config.Config
	store    cache.Store
	provider *fetcher.Provider
	stats    StatsFetcher
	server   *server.Server

	mu   sync.Mutex
	addr net.Addr
}

// NewService builds every collaborator described by cfg
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	store, err := cache.New(ctx, cfg.CacheBackend, cfg.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open cache store: %v", ErrServiceInit, err)
	}

	provider := fetcher.NewProvider(client.NewClient(cfg.FetchTimeout), store, cfg.FetchOptions())

	logger.Info("Service initialized successfully",
		zap.String("data_url", cfg.DataURL),
		zap.String("cache_backend", string(cfg.CacheBackend)),
		zap.String("cache_key", cfg.CacheKey),
		zap.Bool("persistent_cache", store.Persistent()),
		zap.Duration("refresh_interval", cfg.RefreshInterval))

	return &Service{
		config:   cfg,
		store:    store,
		provider: provider,
		stats:    provider,
		server:   server.New(provider, server.WithStaticDir(cfg.StaticDir)),
	}, nil
}

// Fetch runs the fallback chain once
func (s *Service) Fetch(ctx context.Context) models.DataResult {
	return refresh(ctx, s.stats)
}

// Cached returns the entry currently stored under the configured cache key
func (s *Service) Cached(ctx context.Context) (*models.CachedStats, error) {
	return s.provider.Cached(ctx)
}

// ClearCache removes the entry stored under the configured cache key
func (s *Service) ClearCache(ctx context.Context) error {
	key := s.provider.Options().CacheKey
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to clear cache key %s: %w", key, err)
	}
	logger.Info("Cache entry cleared", zap.String("cache_key", key))
	return nil
}

// Start runs the service until SIGINT or SIGTERM
func (s *Service) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run warms the cache, starts the refresh loop and serves HTTP until ctx is
// done, then shuts the server down gracefully.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("%w: failed to listen on %s: %v", ErrServiceInit, s.config.ListenAddr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	// Warm-up failures only mean the chain fell back further
	s.Fetch(ctx)

	// An in-flight refresh finishes before Run returns and the store is closed
	var refreshers sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		refreshers.Wait()
	}()
	if s.config.RefreshInterval > 0 {
		startRefresher(ctx, &refreshers, s.config.RefreshInterval, func(ctx context.Context) {
			refresh(ctx, s.stats)
		})
	}

	httpServer := &http.Server{
		Handler:           s.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Demo server listening", zap.String("addr", ln.Addr().String()))
		serveErr <- httpServer.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received, initiating graceful shutdown")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrServiceShutdown, err)
	}
	return nil
}

// Addr returns the address the HTTP server is bound to, or nil before Run
func (s *Service) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Close performs cleanup operations
func (s *Service) Close() error {
	logger.Info("Closing service")
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("%w: failed to close cache store: %v", ErrServiceShutdown, err)
	}
	return nil
}

// refresh runs the chain once and logs which tier answered
func refresh(ctx context.Context, f StatsFetcher) models.DataResult {
	result := f.Fetch(ctx)

	fields := []zap.Field{
		zap.String("source", string(result.Source)),
		zap.Bool("is_dummy", result.IsDummy),
		zap.Errors("failures", result.Failures),
	}
	if result.Source == models.SourceStatic {
		logger.Info("Stats refreshed", fields...)
	} else {
		logger.Warn("Stats served from fallback", fields...)
	}
	return result
}

// startRefresher calls fn every interval until ctx is done. wg is released
// once the goroutine exits, after any in-flight fn returns.
func startRefresher(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}
