// Package server wires the record service HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/euforicio/scratchpad/internal/server/handlers"
	"github.com/euforicio/scratchpad/internal/server/middleware"
	"github.com/euforicio/scratchpad/internal/server/storage"
)

const healthPath = "/api/v1/health"

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	Version         string
	JWT             handlers.JWTConfig
	RateLimit       int
	RateWindow      time.Duration
	ShutdownTimeout time.Duration
}

// Server is the record service HTTP server.
type Server struct {
	logger *slog.Logger
	http   *http.Server
	cfg    Config
}

// New creates a server over the given storage.
func New(logger *slog.Logger, store storage.RecordStorage, cfg Config) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	return &Server{
		logger: logger,
		cfg:    cfg,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(logger, store, cfg),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// NewRouter builds the API handler.
// Health is public; everything under /api/v1/zones requires a bearer token
// and is rate limited per account.
func NewRouter(logger *slog.Logger, store storage.RecordStorage, cfg Config) http.Handler {
	records := handlers.NewRecordsHandler(logger, store)
	health := handlers.NewHealthHandler(logger, store, cfg.Version)

	protected := []func(http.Handler) http.Handler{
		middleware.AuthMiddleware(logger, cfg.JWT),
	}
	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		protected = append(protected, middleware.RateLimitMiddleware(logger, middleware.NewRateLimiter(cfg.RateLimit, window)))
	}
	guard := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, protected...)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, health.Health)
	mux.Handle("PUT /api/v1/zones/{zone}", guard(records.SaveZone))
	mux.Handle("DELETE /api/v1/zones/{zone}", guard(records.DeleteZone))
	mux.Handle("PUT /api/v1/zones/{zone}/records/{id}", guard(records.SaveRecord))
	mux.Handle("DELETE /api/v1/zones/{zone}/records/{id}", guard(records.DeleteRecord))
	mux.Handle("GET /api/v1/zones/{zone}/changes", guard(records.Changes))

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, healthPath),
	)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. In-flight requests get ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server listening", "addr", ln.Addr().String(), "version", s.cfg.Version)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("Server stopped")
	return nil
}
