// Package app provides the application context and dependency management
// for the amjd CLI: configuration, logging, metrics, the event store and
// the ephemeris provider, shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/metrics"
	"github.com/agentstation/amjd/internal/store"
	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/sources"
)

// App represents the amjd application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	ephemeris ephemeris.Provider

	metricsOnce sync.Once
	metrics     *metrics.Metrics

	// Event store (lazy-initialized, singleton)
	mu    sync.RWMutex
	store *store.Store
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the default locations; options may
// replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:   version,
		commit:    commit,
		date:      date,
		builtBy:   builtBy,
		ephemeris: ephemeris.NewAnalytic(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// DataDir returns the dataset directory.
func (a *App) DataDir() string {
	return a.config.DataDir
}

// IndexPath returns the event index CSV path.
func (a *App) IndexPath() string {
	return a.config.Path(a.config.IndexOutput)
}

// SQLitePath returns the event store path, or "" when none is configured.
func (a *App) SQLitePath() string {
	return a.config.Path(a.config.SQLitePath)
}

// SitesPath returns the observer site table path.
func (a *App) SitesPath() string {
	return a.config.Path(a.config.SitesFile)
}

// Sources builds the source registry: the conventional file of every
// source in DataDir, with configured overrides applied.
func (a *App) Sources() *sources.Sources {
	srcs := sources.Defaults(a.config.DataDir)
	for id, pattern := range a.config.Sources {
		srcs.Set(id, sources.NewFileSource(id, a.config.DataDir, pattern))
	}
	return srcs
}

// Ephemeris returns the Sun/Moon position provider.
func (a *App) Ephemeris() ephemeris.Provider {
	return a.ephemeris
}

// Metrics returns the process metrics registry.
func (a *App) Metrics() *metrics.Metrics {
	a.metricsOnce.Do(func() { a.metrics = metrics.New() })
	return a.metrics
}

// Store returns the event store, opening it lazily. This is thread-safe
// and ensures only one connection is opened.
func (a *App) Store() (*store.Store, error) {
	if a.config.SQLitePath == "" {
		return nil, nil
	}

	a.mu.RLock()
	if a.store != nil {
		st := a.store
		a.mu.RUnlock()
		return st, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.store != nil {
		return a.store, nil
	}

	path := a.SQLitePath()
	st, err := store.Open(path)
	if err != nil {
		return nil, errors.WrapResource("open", "store", path, err)
	}
	a.store = st
	return st, nil
}

// Index returns the latest reconciled index: from the store when one is
// configured, otherwise from the index CSV.
func (a *App) Index(ctx context.Context) (*events.Index, error) {
	st, err := a.Store()
	if err != nil {
		return nil, err
	}
	if st != nil {
		return st.LoadIndex(ctx)
	}
	return events.ReadIndex(a.IndexPath())
}

// Shutdown releases the event store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	if err != nil {
		return errors.WrapResource("close", "store", a.config.SQLitePath, err)
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEphemeris sets a custom position provider.
func WithEphemeris(p ephemeris.Provider) Option {
	return func(a *App) error {
		if p == nil {
			return errors.NewValidationError("ephemeris", nil, "cannot be nil")
		}
		a.ephemeris = p
		return nil
	}
}
