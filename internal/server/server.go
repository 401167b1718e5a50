// Package server exposes interactive sessions over HTTP.
//
// Every request is one event for a session: select a level, show all,
// reset, change the maximum depth, resize, or hit-test a pointer position
// in the tree view. Views of the current state are served as SVG, PNG,
// PDF, JSON or DOT through the pipeline runner and its artifact cache.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/trifractal/pkg/config"
	"github.com/matzehuels/trifractal/pkg/observability"
	"github.com/matzehuels/trifractal/pkg/pipeline"
	"github.com/matzehuels/trifractal/pkg/session"
)

// Defaults for Options.
const (
	DefaultCleanupInterval = time.Minute
	DefaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 20
)

// Options configures a Server.
type Options struct {
	// Config is the base configuration for new sessions.
	Config config.Config

	// Sessions stores live sessions. Nil creates an unlimited registry.
	Sessions *session.Registry

	// Runner renders session views. Nil creates an uncached runner.
	Runner *pipeline.Runner

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	// IdleTTL evicts sessions unused for this long. Zero uses
	// session.DefaultIdleTTL.
	IdleTTL time.Duration

	Logger *log.Logger
}

// Server is the HTTP front end for session events.
type Server struct {
	cfg      config.Config
	sessions *session.Registry
	runner   *pipeline.Runner
	metrics  http.Handler
	idleTTL  time.Duration
	logger   *log.Logger
}

// New creates a server. The base configuration is validated up front so
// session creation only fails on request overrides.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg.IsZero() {
		cfg = config.Default()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		sessions: opts.Sessions,
		runner:   opts.Runner,
		metrics:  opts.Metrics,
		idleTTL:  opts.IdleTTL,
		logger:   opts.Logger,
	}
	if s.sessions == nil {
		s.sessions = session.NewRegistry(0)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.idleTTL <= 0 {
		s.idleTTL = session.DefaultIdleTTL
	}
	return s, nil
}

// Sessions returns the session registry.
func (s *Server) Sessions() *session.Registry { return s.sessions }

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(s.instrument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound(r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/select", s.handleSelect)
			r.Post("/showall", s.handleShowAll)
			r.Post("/reset", s.handleReset)
			r.Post("/depth", s.handleDepth)
			r.Post("/resize", s.handleResize)
			r.Post("/hit", s.handleHit)
			r.Get("/levels", s.handleLevels)
			r.Get("/render.{format}", s.handleRender)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, evicting idle
// sessions in the background, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.sessions.RunCleanup(ctx, DefaultCleanupInterval, s.idleTTL)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// instrument reports every request to the HTTP hooks, labelled by the
// matched route pattern rather than the raw path.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "elapsed", time.Since(start))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
