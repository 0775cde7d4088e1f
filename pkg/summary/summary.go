// Package summary condenses the pipeline's output tables into one
// dataset/metric/value report.
package summary

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/table"
)

// Metric is one named value. Value is an int, a float64, a bool or nil.
type Metric struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// String renders the value the way the summary file stores it.
func (m Metric) String() string {
	switch v := m.Value.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return table.FormatBool(v)
	case string:
		return v
	}
	return ""
}

// Dataset is the summary of one table.
type Dataset struct {
	Name    string   `json:"dataset" yaml:"dataset"`
	Missing bool     `json:"missing,omitempty" yaml:"missing,omitempty"`
	Metrics []Metric `json:"metrics" yaml:"metrics"`
}

// Metric returns the named value, or nil.
func (d *Dataset) Metric(name string) any {
	for _, m := range d.Metrics {
		if m.Name == name {
			return m.Value
		}
	}
	return nil
}

// builder accumulates metrics in insertion order. Tallies are expanded into
// "name.label" entries when the dataset is finished.
type builder struct {
	names   []string
	scalars map[string]any
	tallies map[string]*tally
}

type tally struct {
	order  []string
	counts map[string]int
}

func newBuilder() *builder {
	return &builder{scalars: map[string]any{}, tallies: map[string]*tally{}}
}

func (b *builder) declare(name string) {
	for _, n := range b.names {
		if n == name {
			return
		}
	}
	b.names = append(b.names, name)
}

func (b *builder) set(name string, v any) {
	b.declare(name)
	b.scalars[name] = v
}

func (b *builder) inc(name string) {
	b.declare(name)
	n, _ := b.scalars[name].(int)
	b.scalars[name] = n + 1
}

func (b *builder) count(name, label string) {
	t, ok := b.tallies[name]
	if !ok {
		b.declare(name)
		t = &tally{counts: map[string]int{}}
		b.tallies[name] = t
	}
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (b *builder) tally(name string) {
	if _, ok := b.tallies[name]; !ok {
		b.declare(name)
		b.tallies[name] = &tally{counts: map[string]int{}}
	}
}

func (b *builder) dataset(name string, missing bool) Dataset {
	d := Dataset{Name: name, Missing: missing}
	for _, n := range b.names {
		if t, ok := b.tallies[n]; ok {
			for _, label := range t.order {
				d.Metrics = append(d.Metrics, Metric{Name: n + "." + label, Value: t.counts[label]})
			}
			continue
		}
		d.Metrics = append(d.Metrics, Metric{Name: n, Value: b.scalars[n]})
	}
	if missing {
		d.Metrics = append(d.Metrics, Metric{Name: "missing", Value: true})
	}
	return d
}

// maxAbs tracks the largest |value| seen; it is nil until a row was read.
type maxAbs struct {
	rows int
	max  float64
}

func (m *maxAbs) observe(v *float64) {
	if v != nil {
		m.max = math.Max(m.max, math.Abs(*v))
	}
}

func (m *maxAbs) value() any {
	if m.rows == 0 {
		return nil
	}
	return m.max
}

// Kind selects how a dataset is summarized.
type Kind int

// Dataset kinds.
const (
	MasterValidated Kind = iota
	RawMasterlike
	Volcano
	TopoVisibility
	RowCount
)

// Input names one table to summarize.
type Input struct {
	Name string
	File string
	Kind Kind
}

// Inputs is the default set of tables, in report order.
func Inputs() []Input {
	return []Input{
		{Name: stem(constants.MasterValidatedFile), File: constants.MasterValidatedFile, Kind: MasterValidated},
		{Name: stem(constants.RawMasterlikeFile), File: constants.RawMasterlikeFile, Kind: RawMasterlike},
		{Name: stem(constants.VolcanoProcessedFile), File: constants.VolcanoProcessedFile, Kind: Volcano},
		{Name: stem(constants.TopoSolarFile), File: constants.TopoSolarFile, Kind: TopoVisibility},
		{Name: stem(constants.TopoLunarFile), File: constants.TopoLunarFile, Kind: TopoVisibility},
		{Name: stem(constants.GSFCMasterFile), File: constants.GSFCMasterFile, Kind: RowCount},
		{Name: stem(constants.GSFCValidationFile), File: constants.GSFCValidationFile, Kind: RowCount},
	}
}

func stem(file string) string {
	return strings.TrimSuffix(file, ".csv")
}

// Summarize reads each input from dir. Missing files are reported as missing
// datasets; any other read error aborts.
func Summarize(ctx context.Context, dir string, inputs []Input) ([]Dataset, error) {
	logger := logging.FromContext(ctx)
	out := make([]Dataset, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := table.Read(table.Resolve(dir, in.File))
		if err != nil {
			if !errors.IsSourceMissing(err) {
				return nil, err
			}
			logger.Warn().Str("dataset", in.Name).Msg("Dataset missing")
		}
		out = append(out, SummarizeTable(in, t))
	}
	return out, nil
}

// SummarizeTable summarizes one table. A nil table is a missing dataset.
func SummarizeTable(in Input, t *table.Table) Dataset {
	b := newBuilder()
	switch in.Kind {
	case MasterValidated:
		masterValidated(b, t)
	case RawMasterlike:
		rawMasterlike(b, t)
	case Volcano:
		volcano(b, t)
	case TopoVisibility:
		topo(b, t)
	default:
		b.set("rows", rowCount(t))
	}
	return b.dataset(in.Name, t == nil)
}

func rows(t *table.Table) []table.Row {
	if t == nil {
		return nil
	}
	return t.Rows
}

func rowCount(t *table.Table) int {
	if t == nil {
		return 0
	}
	return t.Len()
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func masterValidated(b *builder, t *table.Table) {
	b.set("rows", rowCount(t))
	b.tally("status_JD")
	b.tally("status_AM")
	var djd, dam maxAbs
	for _, r := range rows(t) {
		djd.rows++
		dam.rows++
		b.count("status_JD", or(r.Get("status_JD"), "NA"))
		b.count("status_AM", or(r.Get("status_AM"), "NA"))
		djd.observe(r.Float("delta_JD_days"))
		dam.observe(r.Float("delta_AM_days"))
	}
	b.set("max_abs_delta_JD_days", djd.value())
	b.set("max_abs_delta_AM_days", dam.value())
}

func rawMasterlike(b *builder, t *table.Table) {
	b.set("rows", rowCount(t))
	b.tally("status_JD")
	b.set("error_count", 0)
	var djd maxAbs
	for _, r := range rows(t) {
		djd.rows++
		b.count("status_JD", or(r.Get("status_JD"), "NA"))
		if r.Get("error") != "" {
			b.inc("error_count")
		}
		djd.observe(r.Float("delta_JD_days"))
	}
	b.set("max_abs_delta_JD_days", djd.value())
}

func volcano(b *builder, t *table.Table) {
	b.set("rows", rowCount(t))
	b.tally("delta_status")
	b.tally("date_mode")
	b.set("approx_date_true", 0)
	b.set("error_count", 0)
	var djd maxAbs
	for _, r := range rows(t) {
		djd.rows++
		b.count("delta_status", or(r.Get("delta_status"), "NA"))
		b.count("date_mode", or(r.Get("date_mode"), "none"))
		switch strings.ToLower(r.Get("approx_date")) {
		case "1", "true", "yes":
			b.inc("approx_date_true")
		}
		if r.Get("error") != "" {
			b.inc("error_count")
		}
		djd.observe(r.Float("delta_jd_calc"))
	}
	b.set("max_abs_delta_JD_days", djd.value())
}

func topo(b *builder, t *table.Table) {
	b.set("rows", rowCount(t))
	b.set("visible_true", 0)
	b.set("visible_false", 0)
	b.tally("classification")
	b.set("error_count", 0)
	for _, r := range rows(t) {
		switch strings.ToLower(r.Get("visible")) {
		case "true", "1", "yes":
			b.inc("visible_true")
		case "false", "0", "no":
			b.inc("visible_false")
		}
		b.count("classification", or(r.Get("classification"), "NA"))
		if r.Get("error") != "" {
			b.inc("error_count")
		}
	}
}

// Header is the summary file's column order.
var Header = []string{"dataset", "metric", "value"}

// Flatten turns datasets into dataset/metric/value records.
func Flatten(ds []Dataset) [][]string {
	var out [][]string
	for _, d := range ds {
		for _, m := range d.Metrics {
			out = append(out, []string{d.Name, m.Name, m.String()})
		}
	}
	return out
}

// Write writes the flattened summary to path.
func Write(path string, ds []Dataset) error {
	return table.Write(path, Header, Flatten(ds))
}
