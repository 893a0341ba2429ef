// Package server implements the bgpfig HTTP API.
//
// The API mirrors the CLI's export pipeline over HTTP and adds share
// persistence:
//
//	POST   /api/v1/export       render a snapshot to the requested formats
//	POST   /api/v1/shares       store a snapshot with its rendered document
//	GET    /api/v1/shares/{id}  fetch a stored share
//	DELETE /api/v1/shares/{id}  remove a stored share
//	GET    /healthz             liveness probe
//	GET    /metrics             Prometheus metrics
//
// All handlers are stateless; caching and persistence live behind the
// pipeline.Runner and share.Store interfaces so deployments choose their
// own backends via config.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bgpfig/bgpfig/pkg/cache"
	"github.com/bgpfig/bgpfig/pkg/observability"
	"github.com/bgpfig/bgpfig/pkg/pipeline"
	"github.com/bgpfig/bgpfig/pkg/share"
)

// Server hosts the HTTP API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	shares  share.Store
	metrics *Metrics
	logger  *log.Logger
}

// New creates a server. The runner and store are required; a nil logger
// falls back to the default logger.
func New(cfg Config, runner *pipeline.Runner, shares share.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:     cfg,
		runner:  runner,
		shares:  shares,
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// NewCacheFromConfig constructs the document cache backend selected by cfg.
func NewCacheFromConfig(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "file":
		dir := cfg.Dir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "bgpfig-cache")
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, errors.New("unknown cache backend: " + cfg.Backend)
	}
}

// NewStoreFromConfig constructs the share store selected by cfg.
// An empty Mongo URI selects the in-memory store.
func NewStoreFromConfig(ctx context.Context, cfg MongoConfig) (share.Store, error) {
	if cfg.URI == "" {
		return share.NewMemoryStore(), nil
	}
	return share.NewMongoStore(ctx, share.MongoConfig{
		URI:      cfg.URI,
		Database: cfg.Database,
	})
}

// Handler builds the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/export", s.handleExport)
		r.Route("/shares", func(r chi.Router) {
			r.Post("/", s.handleCreateShare)
			r.Get("/{id}", s.handleGetShare)
			r.Delete("/{id}", s.handleDeleteShare)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.metrics.Register()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", s.cfg.Addr)

	// Expired shares accumulate in backends without native expiry.
	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	for {
		select {
		case <-cleanup.C:
			if err := s.shares.Cleanup(ctx); err != nil {
				s.logger.Warn("share cleanup failed", "err", err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	}
}

// instrument emits request logs and observability events. The metrics path
// label uses the chi route pattern so share ids don't explode cardinality.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, path, ww.Status(), duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}
