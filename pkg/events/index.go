package events

import (
	"slices"
	"strings"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/table"
)

// Index is the keyed record collection of one reconciliation run.
// It is not safe for concurrent mutation.
type Index struct {
	records map[string]*Record
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{records: make(map[string]*Record)}
}

// GetOrCreate returns the record for key, creating it on first reference.
func (x *Index) GetOrCreate(key string) (rec *Record, created bool) {
	if rec, ok := x.records[key]; ok {
		return rec, false
	}
	rec = New(key)
	x.records[key] = rec
	return rec, true
}

// Get returns the record for key.
func (x *Index) Get(key string) (*Record, bool) {
	rec, ok := x.records[key]
	return rec, ok
}

// Len returns the number of records.
func (x *Index) Len() int {
	return len(x.records)
}

// Keys returns all keys in ascending order.
func (x *Index) Keys() []string {
	keys := make([]string, 0, len(x.records))
	for k := range x.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Records returns all records sorted by key.
func (x *Index) Records() []*Record {
	keys := x.Keys()
	out := make([]*Record, len(keys))
	for i, k := range keys {
		out[i] = x.records[k]
	}
	return out
}

// Filter returns records whose kind matches (case-insensitive), sorted by key.
// An empty kind matches every record.
func (x *Index) Filter(kind string) []*Record {
	var out []*Record
	for _, rec := range x.Records() {
		if kind == "" || (rec.Kind != nil && strings.EqualFold(*rec.Kind, kind)) {
			out = append(out, rec)
		}
	}
	return out
}

// Put replaces the record stored under rec.Key.
func (x *Index) Put(rec *Record) {
	x.records[rec.Key] = rec
}

// WriteIndex writes the index to path in Columns order, sorted by key.
func WriteIndex(path string, x *Index) error {
	recs := x.Records()
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = rec.Cells()
	}
	return table.Write(path, Header(), rows)
}

// ReadIndex loads an index file written by WriteIndex.
func ReadIndex(path string) (*Index, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require("event_index", table.Col(string(FieldKey))); err != nil {
		return nil, err
	}
	x := NewIndex()
	for _, row := range t.Rows {
		rec := FromRow(row)
		if rec.Key == "" {
			continue
		}
		if _, dup := x.records[rec.Key]; dup {
			return nil, errors.NewValidationError("key", rec.Key, "duplicate key in event index")
		}
		x.Put(rec)
	}
	return x, nil
}
