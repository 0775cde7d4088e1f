// Package application holds test doubles for cmd/application.Application.
package application

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/internal/metrics"
	"github.com/agentstation/amjd/internal/store"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/sources"
)

// Mock implements Application with overridable function fields. A nil
// field falls back to a usable default.
type Mock struct {
	DataDirFunc      func() string
	SourcesFunc      func() *sources.Sources
	IndexPathFunc    func() string
	SQLitePathFunc   func() string
	SitesPathFunc    func() string
	StoreFunc        func() (*store.Store, error)
	IndexFunc        func(ctx context.Context) (*events.Index, error)
	EphemerisFunc    func() ephemeris.Provider
	MetricsFunc      func() *metrics.Metrics
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string

	metricsOnce sync.Once
	metrics     *metrics.Metrics

	storeOnce sync.Once
	store     *store.Store
	storeErr  error
}

// DataDir returns the mock data directory or ".".
func (m *Mock) DataDir() string {
	if m.DataDirFunc != nil {
		return m.DataDirFunc()
	}
	return "."
}

// Sources returns the mock registry or the defaults rooted at DataDir.
func (m *Mock) Sources() *sources.Sources {
	if m.SourcesFunc != nil {
		return m.SourcesFunc()
	}
	return sources.Defaults(m.DataDir())
}

// IndexPath returns the mock path or the default index file in DataDir.
func (m *Mock) IndexPath() string {
	if m.IndexPathFunc != nil {
		return m.IndexPathFunc()
	}
	return filepath.Join(m.DataDir(), constants.EventIndexFile)
}

// SQLitePath returns the mock path or "".
func (m *Mock) SQLitePath() string {
	if m.SQLitePathFunc != nil {
		return m.SQLitePathFunc()
	}
	return ""
}

// SitesPath returns the mock path or the default sites file in DataDir.
func (m *Mock) SitesPath() string {
	if m.SitesPathFunc != nil {
		return m.SitesPathFunc()
	}
	return filepath.Join(m.DataDir(), constants.SitesFile)
}

// Store returns the mock store, or opens SQLitePath once when set.
func (m *Mock) Store() (*store.Store, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc()
	}
	path := m.SQLitePath()
	if path == "" {
		return nil, nil
	}
	m.storeOnce.Do(func() { m.store, m.storeErr = store.Open(path) })
	return m.store, m.storeErr
}

// Index returns the mock index or an empty one.
func (m *Mock) Index(ctx context.Context) (*events.Index, error) {
	if m.IndexFunc != nil {
		return m.IndexFunc(ctx)
	}
	return events.NewIndex(), nil
}

// Ephemeris returns the mock provider or the analytic one.
func (m *Mock) Ephemeris() ephemeris.Provider {
	if m.EphemerisFunc != nil {
		return m.EphemerisFunc()
	}
	return ephemeris.NewAnalytic()
}

// Metrics returns the mock registry or a lazily created private one.
func (m *Mock) Metrics() *metrics.Metrics {
	if m.MetricsFunc != nil {
		return m.MetricsFunc()
	}
	m.metricsOnce.Do(func() { m.metrics = metrics.New() })
	return m.metrics
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns "dev".
func (m *Mock) Version() string { return "dev" }

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
