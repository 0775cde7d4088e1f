// Package application provides the application interface for amjd commands.
//
// Commands and the API server accept this interface rather than the concrete
// app.App, so they can be tested with internal/cmd/application.Mock:
//
//	mock := &application.Mock{
//	    IndexFunc: func(context.Context) (*events.Index, error) {
//	        return testIndex, nil
//	    },
//	}
//	srv, err := server.New(mock, server.DefaultConfig())
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/internal/metrics"
	"github.com/agentstation/amjd/internal/store"
	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/sources"
)

// Application provides what commands need from the running program.
//
// Thread Safety: all methods must be safe for concurrent access.
type Application interface {
	// DataDir is the directory holding the AMJD tables.
	DataDir() string

	// Sources returns the reconciliation source registry built from
	// configuration.
	Sources() *sources.Sources

	// IndexPath is where the event index CSV is written and read.
	IndexPath() string

	// SQLitePath is the event store database, or "" when none is configured.
	SQLitePath() string

	// SitesPath is the observer site table used by the visibility grid.
	SitesPath() string

	// Store returns the event store, opening it on first use. It returns
	// nil and no error when no SQLite path is configured.
	Store() (*store.Store, error)

	// Index returns the most recent reconciled event index, read from the
	// SQLite store when one is configured and from the index CSV otherwise.
	Index(ctx context.Context) (*events.Index, error)

	// Ephemeris returns the Sun/Moon position provider.
	Ephemeris() ephemeris.Provider

	// Metrics returns the process metrics registry.
	Metrics() *metrics.Metrics

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
