// Package provenance provides field-level tracking of which source wrote
// each event field and which conflicting writes were turned away.
package provenance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
)

// Provenance records one write attempt on an event field.
type Provenance struct {
	Source        string    `yaml:"source" json:"source"`                                     // Source pass that offered the value
	Field         string    `yaml:"field" json:"field"`                                       // Event index column
	Value         any       `yaml:"value" json:"value"`                                       // Offered value
	Policy        string    `yaml:"policy" json:"policy"`                                     // once, force or accumulate
	Applied       bool      `yaml:"applied" json:"applied"`                                   // False when the write was rejected
	Reason        string    `yaml:"reason,omitempty" json:"reason,omitempty"`                 // Why it was applied or rejected
	PreviousValue any       `yaml:"previous_value,omitempty" json:"previous_value,omitempty"` // Value before the write
	Timestamp     time.Time `yaml:"timestamp" json:"timestamp"`
	Sequence      int       `yaml:"sequence" json:"sequence"` // Order of the attempt within the run
}

// Map tracks provenance for many events.
type Map map[string][]Provenance // key is "eventKey:field"

// Tracker manages provenance tracking during reconciliation.
type Tracker interface {
	// Track records a write attempt
	Track(eventKey, field string, p Provenance)

	// FindByField retrieves provenance for a specific field
	FindByField(eventKey, field string) []Provenance

	// FindByEvent retrieves all provenance for an event, keyed by field
	FindByEvent(eventKey string) map[string][]Provenance

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
	seq        int
}

// NewTracker creates a new provenance tracker. A disabled tracker
// records nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

func (p *tracker) Track(eventKey, field string, history Provenance) {
	if !p.enabled {
		return
	}
	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now()
	}
	if history.Field == "" {
		history.Field = field
	}
	p.seq++
	history.Sequence = p.seq

	key := makeKey(eventKey, field)
	p.provenance[key] = append(p.provenance[key], history)
}

func (p *tracker) FindByField(eventKey, field string) []Provenance {
	if !p.enabled {
		return nil
	}
	return p.provenance[makeKey(eventKey, field)]
}

func (p *tracker) FindByEvent(eventKey string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}
	result := make(map[string][]Provenance)
	for key, info := range p.provenance {
		if k, field := splitKey(key); k == eventKey {
			result[field] = info
		}
	}
	return result
}

func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}
	// copy so callers cannot mutate tracker state
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

func (p *tracker) Clear() {
	p.provenance = make(Map)
	p.seq = 0
}

// Event keys may contain ':' but field names never do, so the field is
// split off the right.
func makeKey(eventKey, field string) string {
	return eventKey + ":" + field
}

func splitKey(key string) (eventKey, field string) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return key, ""
	}
	return key[:i], key[i+1:]
}

// Report groups provenance by event.
type Report struct {
	Events map[string]EventProvenance
}

// EventProvenance contains provenance for a single event.
type EventProvenance struct {
	Key    string
	Fields map[string]Field
}

// Field contains provenance history for a single field.
type Field struct {
	Current   Provenance     // Last applied write
	History   []Provenance   // All attempts in run order
	Conflicts []ConflictInfo // Rejected writes that disagreed with the value kept
}

// ConflictInfo describes a rejected write.
type ConflictInfo struct {
	Source         string // Source whose value was rejected
	Value          any    // The rejected value
	SelectedSource string // Source whose value was kept
	SelectedValue  any
	Resolution     string
}

// GenerateReport creates a provenance report from a Map.
func GenerateReport(provenance Map) *Report {
	report := &Report{Events: make(map[string]EventProvenance)}

	for key, infos := range provenance {
		eventKey, field := splitKey(key)
		if field == "" {
			continue
		}

		ev, exists := report.Events[eventKey]
		if !exists {
			ev = EventProvenance{Key: eventKey, Fields: make(map[string]Field)}
		}

		history := append([]Provenance{}, infos...)
		sort.Slice(history, func(i, j int) bool {
			return history[i].Sequence < history[j].Sequence
		})

		fp := Field{History: history}
		for _, info := range history {
			if info.Applied {
				fp.Current = info
			}
		}
		fp.Conflicts = detectConflicts(history)

		ev.Fields[field] = fp
		report.Events[eventKey] = ev
	}

	return report
}

// detectConflicts pairs each rejected write with the applied write in
// force at that point.
func detectConflicts(history []Provenance) []ConflictInfo {
	var conflicts []ConflictInfo
	var current *Provenance
	for i := range history {
		info := history[i]
		if info.Applied {
			current = &history[i]
			continue
		}
		c := ConflictInfo{
			Source:     info.Source,
			Value:      info.Value,
			Resolution: info.Reason,
		}
		if current != nil {
			c.SelectedSource = current.Source
			c.SelectedValue = current.Value
		}
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// ConflictCount returns the number of rejected conflicting writes.
func (r *Report) ConflictCount() int {
	n := 0
	for _, ev := range r.Events {
		for _, f := range ev.Fields {
			n += len(f.Conflicts)
		}
	}
	return n
}

// String generates a string representation of the provenance report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	keys := make([]string, 0, len(r.Events))
	for key := range r.Events {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ev := r.Events[key]
		sb.WriteString(key + "\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		fields := make([]string, 0, len(ev.Fields))
		for field := range ev.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			fp := ev.Fields[field]
			fmt.Fprintf(&sb, "  %s: %v (from %s, %s)\n", field, fp.Current.Value, fp.Current.Source, fp.Current.Policy)
			for _, c := range fp.Conflicts {
				fmt.Fprintf(&sb, "    rejected %v from %s: %s\n", c.Value, c.Source, c.Resolution)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File is the on-disk provenance document.
type File struct {
	RunID      string `yaml:"run_id,omitempty"`
	Provenance Map    `yaml:"provenance"`
}

// Save writes provenance as YAML, creating parent directories.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from command flags
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &pf, nil
}
