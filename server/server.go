// Package server exposes stats payloads and the demo pages over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitstats/dummy"
	"gitstats/logger"
	"gitstats/models"
)

// StatsProvider runs one pass of the fallback chain
type StatsProvider interface {
	Fetch(ctx context.Context) models.DataResult
}

// DummyGenerator builds synthetic payloads for /api/dummy
type DummyGenerator interface {
	Stats(opts dummy.Options) *models.GitStatsData
	MultiProfileStats() *models.GitStatsData
}

// Server holds the HTTP handlers and their collaborators
type Server struct {
	router    *mux.Router
	provider  StatsProvider
	dummy     func() DummyGenerator
	staticDir string
	indexFile string
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// WithStaticDir sets the directory served under /
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithIndexFile sets the file served for /, relative to the static directory
func WithIndexFile(name string) Option {
	return func(s *Server) {
		s.indexFile = name
	}
}

// WithClock overrides the time source used for relative timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithDummyGenerator overrides how /api/dummy builds its payloads
func WithDummyGenerator(fn func() DummyGenerator) Option {
	return func(s *Server) {
		s.dummy = fn
	}
}

// New wires the routes. A nil provider disables /api/stats.
func New(provider StatsProvider, opts ...Option) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		provider:  provider,
		dummy:     func() DummyGenerator { return dummy.New() },
		staticDir: ".",
		indexFile: "index.html",
		now:       time.Now,
		log:       logger.Named("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}
