// Package sources describes the tabular datasets that feed event
// reconciliation: their identifiers, default file names, required columns
// and how they are located on disk.
//
// Example usage:
//
//	srcs := sources.Defaults("data/amjd")
//	src, _ := srcs.Get(sources.VolcanoID)
//	tbl, err := src.Load(ctx)
//	if sources.IsMissing(err) {
//	    // pass is skipped
//	}
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/table"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Source identifiers in reconciliation order.
const (
	MasterValidatedID ID = "master_validated"
	GSFCMasterID      ID = "gsfc_master"
	GSFCValidationID  ID = "gsfc_validacja"
	VolcanoID         ID = "volcano"
	RawMasterlikeID   ID = "raw_masterlike"
	TopoSolarID       ID = "topo_solar"
	TopoLunarID       ID = "topo_lunar"
)

// IDs returns all source identifiers in reconciliation order.
func IDs() []ID {
	return []ID{
		MasterValidatedID,
		GSFCMasterID,
		GSFCValidationID,
		VolcanoID,
		RawMasterlikeID,
		TopoSolarID,
		TopoLunarID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source represents a tabular dataset.
type Source interface {
	// ID returns the identifier of this source
	ID() ID

	// Load reads the whole table. A missing file yields an error for
	// which IsMissing reports true.
	Load(ctx context.Context) (*table.Table, error)
}

// IsMissing reports whether err means the source file does not exist.
func IsMissing(err error) bool {
	return errors.IsSourceMissing(err)
}

// FileSource reads a source from a file name or doublestar glob relative
// to a data directory.
type FileSource struct {
	id      ID
	dir     string
	pattern string
}

// NewFileSource creates a file-backed source.
func NewFileSource(id ID, dir, pattern string) *FileSource {
	return &FileSource{id: id, dir: dir, pattern: pattern}
}

// ID returns the source identifier.
func (s *FileSource) ID() ID {
	return s.id
}

// Path returns the resolved file name or glob.
func (s *FileSource) Path() string {
	return table.Resolve(s.dir, s.pattern)
}

// Load reads the table and checks its required columns.
func (s *FileSource) Load(ctx context.Context) (*table.Table, error) {
	logger := logging.FromContext(ctx)

	t, err := table.ReadPattern(s.dir, s.pattern)
	if err != nil {
		var missing *errors.SourceMissingError
		if errors.As(err, &missing) {
			missing.Source = string(s.id)
		}
		return nil, err
	}

	if d, ok := Lookup(s.id); ok {
		if err := t.Require(string(s.id), d.Required...); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Str("source", string(s.id)).
		Str("path", t.Path).
		Int("rows", t.Len()).
		Msg("Loaded source table")
	return t, nil
}

// StaticSource serves an in-memory table.
type StaticSource struct {
	id    ID
	table *table.Table
}

// NewStaticSource wraps t. A nil table behaves as a missing file.
func NewStaticSource(id ID, t *table.Table) *StaticSource {
	return &StaticSource{id: id, table: t}
}

// ID returns the source identifier.
func (s *StaticSource) ID() ID {
	return s.id
}

// Load returns the wrapped table after checking required columns.
func (s *StaticSource) Load(context.Context) (*table.Table, error) {
	if s.table == nil {
		return nil, &errors.SourceMissingError{Source: string(s.id), Path: "<memory>"}
	}
	if d, ok := Lookup(s.id); ok {
		if err := s.table.Require(string(s.id), d.Required...); err != nil {
			return nil, err
		}
	}
	return s.table, nil
}

// Sources is a thread-safe container for managing multiple data sources.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewSources creates a new Sources instance.
func NewSources(srcs ...Source) *Sources {
	s := &Sources{sources: make(map[ID]Source)}
	for _, src := range srcs {
		s.sources[src.ID()] = src
	}
	return s
}

// Defaults registers every known source under its conventional file name in dir.
func Defaults(dir string) *Sources {
	s := NewSources()
	for _, d := range Descriptors() {
		s.Set(d.ID, NewFileSource(d.ID, dir, d.File))
	}
	return s
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set sets a source by ID.
func (s *Sources) Set(id ID, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[id] = src
}

// Delete deletes a source by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// IDs returns registered source IDs in reconciliation order.
func (s *Sources) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []ID
	for _, id := range IDs() {
		if _, ok := s.sources[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
