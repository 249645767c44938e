package server

import (
	"net/http"
)

func (s *Server) routes() {
	r := s.router
	r.Use(s.loggerMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)
	api.HandleFunc("/stats", s.getStats).Methods(http.MethodGet)
	api.HandleFunc("/dummy", s.getDummy).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	static := r.PathPrefix("/").Subrouter()
	static.Use(corsMiddleware, noCacheMiddleware)
	static.PathPrefix("/").HandlerFunc(s.serveStatic).Methods(http.MethodGet, http.MethodHead)
}
