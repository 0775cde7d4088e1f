package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/provenance"
	"github.com/agentstation/amjd/pkg/sources"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// RunID identifies the run in logs, provenance and the store
	RunID string

	// Index is the reconciled record set
	Index *events.Index

	// Per-source row counts
	SourceStats map[sources.ID]SourceStats

	// Metadata
	Metadata ResultMetadata

	// Provenance tracking
	Provenance provenance.Map

	// Issues
	Warnings []string
}

// SourceStats counts how a source's rows were handled.
type SourceStats struct {
	Missing   bool   `json:"missing"`
	Path      string `json:"path,omitempty"`
	Rows      int    `json:"rows"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"` // rows without a key
	Errored   int    `json:"errored"` // rows carrying a recorded error
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Sources whose passes ran
	Sources []sources.ID

	// Sources skipped because their file was missing
	Missing []sources.ID

	Stats ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	Records        int
	RowsProcessed  int
	RowsSkipped    int
	RowsErrored    int
	WritesApplied  int
	WritesRejected int
	TotalTimeMs    int64
}

// NewResult creates a new result with defaults.
func NewResult(runID string) *Result {
	return &Result{
		RunID:       runID,
		Index:       events.NewIndex(),
		SourceStats: make(map[sources.ID]SourceStats),
		Warnings:    []string{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Sources:   []sources.ID{},
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
	r.Metadata.Stats.Records = r.Index.Len()
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	msg := fmt.Sprintf("Reconciled %d events from %d sources (%d rows, %d skipped, %d with errors)",
		s.Records, len(r.Metadata.Sources), s.RowsProcessed, s.RowsSkipped, s.RowsErrored)
	if n := len(r.Metadata.Missing); n > 0 {
		msg += fmt.Sprintf("; %d sources missing", n)
	}
	return msg
}
