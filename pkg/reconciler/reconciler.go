// Package reconciler merges the tabular event sources into one canonical
// event index. Sources are integrated by ordered passes; a field policy
// table decides whether a value is written once, forced, or accumulated.
package reconciler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/provenance"
	"github.com/agentstation/amjd/pkg/sources"
	"github.com/agentstation/amjd/pkg/table"
)

// Reconciler builds an event index from a set of sources.
type Reconciler interface {
	// Reconcile runs every pass in order. A missing source file skips its
	// pass; a source missing required columns aborts the run.
	Reconcile(ctx context.Context, srcs *sources.Sources) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	options *options
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{options: options}, nil
}

// Reconcile performs one reconciliation run.
func (r *reconciler) Reconcile(ctx context.Context, srcs *sources.Sources) (*Result, error) {
	if srcs == nil {
		return nil, &errors.ValidationError{Field: "sources", Message: "cannot be nil"}
	}

	runID := r.options.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	result := NewResult(runID)
	tracker := provenance.NewTracker(r.options.tracking)
	m := newMerger(r.options.policies, tracker)

	logger.Info().Int("sources", srcs.Len()).Msg("Starting reconciliation")

	for _, p := range defaultPasses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.options.only != nil && !r.options.only[p.source] {
			continue
		}
		src, ok := srcs.Get(p.source)
		if !ok {
			r.skipMissing(logging.WithSource(ctx, string(p.source)), p.source,
				&errors.SourceMissingError{Source: string(p.source), Path: "<unregistered>"}, result)
			continue
		}
		if err := r.runPass(logging.WithSource(ctx, string(p.source)), p, src, m, result); err != nil {
			return nil, err
		}
	}

	result.Metadata.Stats.WritesApplied = m.applied
	result.Metadata.Stats.WritesRejected = m.rejected
	result.Provenance = tracker.Map()
	result.Finalize()
	r.options.observer.RunFinished(result.Index.Len(), result.Metadata.Duration)

	logger.Info().
		Int("records", result.Metadata.Stats.Records).
		Int("writes_applied", m.applied).
		Int("writes_rejected", m.rejected).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}

// runPass loads one source and integrates its rows.
func (r *reconciler) runPass(ctx context.Context, p pass, src sources.Source, m *merger, result *Result) error {
	logger := logging.FromContext(ctx)

	tbl, err := src.Load(ctx)
	if err != nil {
		if sources.IsMissing(err) {
			r.skipMissing(ctx, p.source, err, result)
			return nil
		}
		return fmt.Errorf("reconcile %s: %w", p.source, err)
	}

	stats, err := integrate(p, tbl, m, result.Index)
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", p.source, err)
	}
	result.SourceStats[p.source] = stats
	result.Metadata.Sources = append(result.Metadata.Sources, p.source)
	result.Metadata.Stats.RowsProcessed += stats.Processed
	result.Metadata.Stats.RowsSkipped += stats.Skipped
	result.Metadata.Stats.RowsErrored += stats.Errored
	r.options.observer.SourceProcessed(p.source, stats)

	logger.Info().
		Int("rows", stats.Rows).
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("errored", stats.Errored).
		Msg("Integrated source")
	return nil
}

// skipMissing records a pass whose source could not be loaded.
func (r *reconciler) skipMissing(ctx context.Context, id sources.ID, err error, result *Result) {
	logging.FromContext(ctx).Warn().Err(err).Msg("Source missing, pass skipped")
	result.SourceStats[id] = SourceStats{Missing: true}
	result.Metadata.Missing = append(result.Metadata.Missing, id)
	result.Warnings = append(result.Warnings, err.Error())
	r.options.observer.SourceMissing(id)
}

// integrate applies every row of tbl to the index.
func integrate(p pass, tbl *table.Table, m *merger, x *events.Index) (SourceStats, error) {
	stats := SourceStats{Path: tbl.Path, Rows: tbl.Len()}
	for _, row := range tbl.Rows {
		ok, err := p.apply(m, x, row)
		if err != nil {
			return stats, err
		}
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Processed++
		if rowHasError(row) {
			stats.Errored++
		}
	}
	return stats, nil
}
