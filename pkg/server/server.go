// Package server exposes the canonicalizer over HTTP.
//
// # Endpoints
//
//	POST /v1/canonicalize     serialize one molecule
//	POST /v1/batch            serialize many molecules concurrently
//	POST /v1/molecules        register a molecule under its canonical text
//	GET  /v1/molecules        look up a molecule (?smiles=...)
//	GET  /v1/molecules/{id}   fetch a registered molecule by id
//	GET  /healthz             liveness probe
//	GET  /metrics             Prometheus metrics
//
// Errors are returned as {"error": ..., "code": ...} with the HTTP status
// derived from the error code. Every response carries an X-Request-ID
// header; a client-supplied id is echoed back.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/pipeline"
	"github.com/matzehuels/molline/pkg/registry"
)

// Defaults for Config fields left empty.
const (
	DefaultMaxBatch     = 10000
	DefaultMaxBodyBytes = 8 << 20
)

// Config wires the server's collaborators.
type Config struct {
	Runner   *pipeline.Runner
	Registry registry.Store
	Logger   *log.Logger

	// Options are the defaults for requests that carry no options. The
	// registry always uses them so that one structure has one key. Nil
	// means line.DefaultOptions.
	Options *pipeline.Options

	// Metrics serves /metrics. Defaults to the global Prometheus registry.
	Metrics http.Handler

	MaxBatch     int
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	registry registry.Store
	logger   *log.Logger
	opts     pipeline.Options
	metrics  http.Handler
	maxBatch int
	maxBody  int64
	router   chi.Router
}

// New creates a server. Nil collaborators get in-memory defaults.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		registry: cfg.Registry,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		maxBatch: cfg.MaxBatch,
		maxBody:  cfg.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.registry == nil {
		s.registry = registry.NewMemoryStore()
	}
	if s.metrics == nil {
		s.metrics = promhttp.Handler()
	}
	if s.maxBatch <= 0 {
		s.maxBatch = DefaultMaxBatch
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if cfg.Options != nil {
		s.opts = *cfg.Options
	} else {
		s.opts = pipeline.Options{Line: line.DefaultOptions()}
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/canonicalize", s.handleCanonicalize)
		r.Post("/batch", s.handleBatch)
		r.Post("/molecules", s.handleRegister)
		r.Get("/molecules", s.handleLookup)
		r.Get("/molecules/{id}", s.handleGet)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
