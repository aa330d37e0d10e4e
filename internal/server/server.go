// Package server exposes the analysis service over HTTP. The layer is
// deliberately thin: request parsing, error-to-status mapping, and JSON
// encoding live here, everything else in pkg/service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/repolens/repolens/pkg/service"
)

// Server wraps an http.Server around the analysis service.
type Server struct {
	svc    *service.Service
	logger *log.Logger
	http   *http.Server
}

// New creates a Server listening on addr.
func New(addr string, svc *service.Service, logger *log.Logger) *Server {
	s := &Server{svc: svc, logger: logger}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router builds the route tree. Exposed separately so tests can drive the
// handlers without a listening socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/analyze", s.handleAnalyze)
		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", s.handleCacheStats)
			r.Get("/search", s.handleCacheSearch)
			r.Get("/recent", s.handleCacheRecent)
			r.Get("/top", s.handleCacheTop)
			r.Get("/entry", s.handleCacheEntry)
			r.Post("/sweep", s.handleCacheSweep)
			r.Delete("/", s.handleCacheClear)
		})
	})

	return r
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}
