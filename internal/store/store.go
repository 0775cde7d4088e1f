// Package store persists reconciled event indexes in SQLite so the API
// server can serve the latest run without re-reading the CSV sources.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/table"
)

// Store wraps a SQLite database holding the current event index and the
// history of runs that wrote it.
type Store struct {
	db *sql.DB
}

// Run describes one saved reconciliation run.
type Run struct {
	ID      string    `json:"id" yaml:"id"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`
	Records int       `json:"records" yaml:"records"`
}

// Open opens (or creates) the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("open", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("migrate", "store", path, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func columnList() string {
	return strings.Join(events.Header(), ", ")
}

func (s *Store) migrate() error {
	var cols strings.Builder
	for _, c := range events.Columns[1:] {
		fmt.Fprintf(&cols, "    %s TEXT NOT NULL DEFAULT '',\n", c)
	}
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    saved_at INTEGER NOT NULL,
    records INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    key TEXT PRIMARY KEY,
` + cols.String() + `    run_id TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);`
	_, err := s.db.Exec(schema)
	return err
}

// SaveIndex replaces the stored index with x and records the run.
func (s *Store) SaveIndex(ctx context.Context, runID string, x *events.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("save", "index", runID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, saved_at, records) VALUES (?, ?, ?)`,
		runID, time.Now().Unix(), x.Len(),
	); err != nil {
		return errors.WrapResource("save", "run", runID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return errors.WrapResource("save", "index", runID, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(events.Columns)+1), ", ")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (`+columnList()+`, run_id) VALUES (`+placeholders+`)`)
	if err != nil {
		return errors.WrapResource("save", "index", runID, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range x.Records() {
		cells := rec.Cells()
		args := make([]any, 0, len(cells)+1)
		for _, c := range cells {
			args = append(args, c)
		}
		args = append(args, runID)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.WrapResource("save", "event", rec.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapResource("save", "index", runID, err)
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]*events.Record, error) {
	defer func() { _ = rows.Close() }()
	header := events.Header()
	var out []*events.Record
	for rows.Next() {
		cells := make([]string, len(header))
		ptrs := make([]any, len(cells))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(table.Row, len(header))
		for i, h := range header {
			row[h] = cells[i]
		}
		out = append(out, events.FromRow(row))
	}
	return out, rows.Err()
}

// LoadIndex reads the stored index. An empty database yields an empty index.
func (s *Store) LoadIndex(ctx context.Context) (*events.Index, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columnList()+` FROM events ORDER BY key`)
	if err != nil {
		return nil, errors.WrapResource("load", "index", "", err)
	}
	recs, err := scanEvents(rows)
	if err != nil {
		return nil, errors.WrapResource("load", "index", "", err)
	}
	x := events.NewIndex()
	for _, r := range recs {
		x.Put(r)
	}
	return x, nil
}

// Event returns one stored record, or *errors.NotFoundError.
func (s *Store) Event(ctx context.Context, key string) (*events.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columnList()+` FROM events WHERE key = ?`, key)
	if err != nil {
		return nil, errors.WrapResource("get", "event", key, err)
	}
	recs, err := scanEvents(rows)
	if err != nil {
		return nil, errors.WrapResource("get", "event", key, err)
	}
	if len(recs) == 0 {
		return nil, errors.NewNotFoundError("event", key)
	}
	return recs[0], nil
}

// Runs lists saved runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, saved_at, records FROM runs ORDER BY saved_at DESC, rowid DESC`)
	if err != nil {
		return nil, errors.WrapResource("list", "runs", "", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var saved int64
		if err := rows.Scan(&r.ID, &saved, &r.Records); err != nil {
			return nil, errors.WrapResource("list", "runs", "", err)
		}
		r.SavedAt = time.Unix(saved, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
