// Package server provides the HTTP API over the AMJD engine: date
// conversion, JD lookups, the reconciled event index and eclipse
// visibility checks.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/server/cache"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	cache     *cache.Cache
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
	http      *http.Server
}

// New creates a server. Zero-valued config fields fall back to defaults.
func New(app application.Application, cfg Config) (*Server, error) {
	def := DefaultConfig()
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}

	s := &Server{
		app:       app,
		cache:     cache.New(cfg.CacheTTL),
		logger:    app.Logger(),
		config:    cfg,
		startTime: time.Now(),
	}
	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.setupRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	s.logger.Debug().Str("addr", cfg.Addr()).Msg("Server instance created")
	return s, nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info().
		Str("addr", s.config.Addr()).
		Str("prefix", s.config.PathPrefix).
		Msg("API server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down API server")
	return s.http.Shutdown(ctx)
}

// Refresh drops cached lookups so the next request reloads the index.
func (s *Server) Refresh() {
	s.cache.Flush()
}

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
