// Package serve provides the HTTP API server command.
package serve

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/server"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
)

// NewCommand creates the serve command. defaults supplies the configured
// server settings at run time; flags given on the command line override them.
func NewCommand(app application.Application, defaults func() server.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the REST API server",
		Long: `Start an HTTP API over the AMJD engine.

Endpoints (under --prefix):
  GET /convert     civil date to JD/AM
  GET /jd/{jd}     JD to AM and civil dates
  GET /events      reconciled events, filterable by kind
  GET /events/{key}
  GET /visibility  eclipse visibility at one site
  GET /health, /ready, /metrics

The event index is read from the SQLite store when configured and from
the index CSV otherwise, and cached for --cache-ttl.`,
		Example: `  amjd serve
  amjd serve --port 3000 --cors-origins "*"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := parseConfig(cmd, defaults())
			return run(cmd.Context(), app, cfg)
		},
	}

	def := server.DefaultConfig()
	cmd.Flags().Int("port", def.Port, "server port")
	cmd.Flags().String("host", def.Host, "bind address")
	cmd.Flags().String("prefix", def.PathPrefix, "API path prefix")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (comma-separated, * for any)")
	cmd.Flags().Duration("cache-ttl", def.CacheTTL, "index and conversion cache TTL")
	cmd.Flags().Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", def.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", def.IdleTimeout, "HTTP idle timeout")
	cmd.Flags().Duration("request-timeout", def.RequestTimeout, "deadline for each API request (0 disables)")
	cmd.Flags().Bool("metrics", def.MetricsEnabled, "expose /metrics")
	return cmd
}

// parseConfig applies the flags the user set over cfg.
func parseConfig(cmd *cobra.Command, cfg server.Config) server.Config {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout, _ = flags.GetDuration("read-timeout")
	}
	if flags.Changed("write-timeout") {
		cfg.WriteTimeout, _ = flags.GetDuration("write-timeout")
	}
	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout, _ = flags.GetDuration("idle-timeout")
	}
	if flags.Changed("request-timeout") {
		cfg.RequestTimeout, _ = flags.GetDuration("request-timeout")
	}
	if flags.Changed("metrics") {
		cfg.MetricsEnabled, _ = flags.GetBool("metrics")
	}
	return cfg
}

func run(ctx context.Context, app application.Application, cfg server.Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.NewValidationError("port", cfg.Port, "must be between 1 and 65535")
	}

	logger := app.Logger()
	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Strs("cors_origins", cfg.CORSOrigins).
		Dur("cache_ttl", cfg.CacheTTL).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return errors.WrapResource("create", "server", cfg.Addr(), err)
	}
	return startWithGracefulShutdown(ctx, srv, cfg.Addr(), logger)
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// in-flight requests for up to constants.ShutdownTimeout.
func startWithGracefulShutdown(ctx context.Context, srv *server.Server, addr string, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)
	notices := alerts.New(os.Stderr)

	go func() {
		fmt.Printf("API server listening on http://%s\n", addr)
		fmt.Println("   Press Ctrl+C to stop")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return errors.WrapResource("serve", "server", addr, err)
		}
		return nil
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Println()
		notices.Infof("Shutting down API server...")

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.WrapResource("shutdown", "server", addr, err)
		}
		start := time.Now()
		<-serverErr
		logger.Info().Dur("drain", time.Since(start)).Msg("Server stopped gracefully")
		notices.Successf("API server stopped gracefully")
		return nil
	}
}
