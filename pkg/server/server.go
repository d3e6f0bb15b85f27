// Package server exposes the pipeline and the gallery over HTTP.
//
// # Routes
//
//	GET    /healthz                          liveness and build info
//	GET    /v1/render.{format}               render from query parameters
//	GET    /v1/palette/random                random palette as JSON
//	POST   /v1/gallery                       save a composition
//	GET    /v1/gallery                       list saved compositions
//	GET    /v1/gallery/{id}                  one saved composition
//	GET    /v1/gallery/{id}/render.{format}  render a saved composition
//	DELETE /v1/gallery/{id}                  delete a saved composition
//	GET    /metrics                          Prometheus metrics, when enabled
//
// Errors are JSON objects {"code": ..., "error": ...}; the status code is
// derived from the error code.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pearls/pkg/gallery"
	"github.com/matzehuels/pearls/pkg/pipeline"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8080"

// Config configures a Server.
type Config struct {
	Addr    string
	Runner  *pipeline.Runner
	Store   gallery.Store
	Logger  *log.Logger
	Metrics http.Handler // served at /metrics when non-nil

	// RequestTimeout bounds each request. Zero means 30s.
	RequestTimeout time.Duration
}

// Server is the pearls HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  gallery.Store
	logger *log.Logger
	router chi.Router
}

// New builds a Server. A nil Runner gets an uncached runner and a nil
// Store gets a MemoryStore.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = gallery.NewMemoryStore()
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/render.{format}", s.handleRender)
		r.Get("/palette/random", s.handleRandomPalette)

		r.Route("/gallery", func(r chi.Router) {
			r.Post("/", s.handleCreateEntry)
			r.Get("/", s.handleListEntries)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetEntry)
				r.Delete("/", s.handleDeleteEntry)
				r.Get("/render.{format}", s.handleRenderEntry)
			})
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
