// Package rawdata normalizes raw event rows (key, calendar, Y/M/D, UT time,
// recorded JD) into the master-like layout: each row gains a computed JD,
// its delta against the recorded JD and a status.
package rawdata

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/agentstation/amjd/pkg/calendar"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/status"
	"github.com/agentstation/amjd/pkg/table"
)

// InputColumns are the required raw columns. Any other column is carried
// through unchanged.
var InputColumns = []string{"key", "label", "calendar", "Y", "M", "D", "UT_time", "JD_UT"}

// sourceGroup is always present in the output so the reconciler's
// raw_masterlike pass can read it.
const sourceGroup = "source_group"

// Row is a processed raw row.
type Row struct {
	Key      string
	Label    string
	Calendar string
	Year     *int
	Month    *int
	Day      *int
	UTTime   string
	JDSource *float64
	JDCalc   *float64
	DeltaJD  *float64
	Status   status.Status
	Error    string
	Extra    map[string]string
}

// errIncompleteDate is recorded for rows without a full Y/M/D.
const errIncompleteDate = "missing Y/M/D, cannot compute JD"

// Process computes the JD columns for one raw row.
func Process(r table.Row, extras []string) Row {
	out := Row{
		Key:      r.Get("key"),
		Label:    r.Get("label"),
		Calendar: r.Get("calendar"),
		Year:     r.Int("Y"),
		Month:    r.Int("M"),
		Day:      r.Int("D"),
		UTTime:   r.Get("UT_time"),
		JDSource: r.Float("JD_UT"),
		Status:   status.NA,
		Extra:    make(map[string]string, len(extras)),
	}
	if out.Label == "" {
		out.Label = out.Key
	}
	for _, col := range extras {
		out.Extra[col] = r.Get(col)
	}

	if out.Year == nil || out.Month == nil || out.Day == nil {
		out.Error = errIncompleteDate
		return out
	}

	jd, err := compute(out)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.JDCalc = &jd
	if out.JDSource != nil {
		delta := jd - *out.JDSource
		out.DeltaJD = &delta
		out.Status = status.JD.Classify(delta)
	}
	return out
}

func compute(r Row) (float64, error) {
	system, err := calendar.ParseSystem(r.Calendar)
	if err != nil {
		return 0, err
	}
	frac, err := calendar.ParseTimeOfDay(r.UTTime)
	if err != nil {
		return 0, err
	}
	return calendar.ToJD(system, *r.Year, *r.Month, float64(*r.Day)+frac)
}

// Result is a processed raw table.
type Result struct {
	Rows   []Row
	Extras []string
}

// Errors returns the number of rows that could not be converted.
func (r *Result) Errors() int {
	n := 0
	for _, row := range r.Rows {
		if row.Error != "" {
			n++
		}
	}
	return n
}

// ProcessTable converts every row of a raw table.
func ProcessTable(ctx context.Context, t *table.Table) (*Result, error) {
	cols := make([]table.Column, len(InputColumns))
	for i, c := range InputColumns {
		cols[i] = table.Col(c)
	}
	if err := t.Require("raw_data", cols...); err != nil {
		return nil, err
	}

	extras := t.Extras(InputColumns...)
	res := &Result{Rows: make([]Row, 0, t.Len()), Extras: extras}
	for _, row := range t.Rows {
		res.Rows = append(res.Rows, Process(row, extras))
	}

	logging.FromContext(ctx).Info().
		Str("path", t.Path).
		Int("rows", len(res.Rows)).
		Int("errors", res.Errors()).
		Msg("Processed raw data")
	return res, nil
}

// Header returns the output columns: the fixed set followed by extras,
// with source_group guaranteed.
func (r *Result) Header() []string {
	header := []string{
		"key", "label", "calendar", "Y", "M", "D", "UT_time",
		"JD_UT_src", "JD_UT_calc", "delta_JD_days", "status_JD", "error",
	}
	header = append(header, r.Extras...)
	for _, h := range r.Extras {
		if h == sourceGroup {
			return header
		}
	}
	return append(header, sourceGroup)
}

// Record renders a row in header order.
func (row Row) Record(header []string) []string {
	fixed := []string{
		row.Key, row.Label, row.Calendar, formatInt(row.Year), formatInt(row.Month), formatInt(row.Day), row.UTTime,
		table.FormatFloat(row.JDSource), table.FormatFloat(row.JDCalc), table.FormatFloat(row.DeltaJD), string(row.Status), row.Error,
	}
	for _, h := range header[len(fixed):] {
		fixed = append(fixed, row.Extra[h])
	}
	return fixed
}

// Write writes the processed rows to path.
func Write(path string, r *Result) error {
	header := r.Header()
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Record(header)
	}
	return table.Write(path, header, rows)
}

// OutputPath places the masterlike file next to the raw input.
func OutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), constants.RawMasterlikeFile)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
