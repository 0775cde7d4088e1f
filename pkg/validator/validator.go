// Package validator checks a master event table against the calendar
// converter and the AM epoch model, classifying each row's deltas.
package validator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/agentstation/amjd/pkg/calendar"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/epoch"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/status"
	"github.com/agentstation/amjd/pkg/table"
)

// Row is one master table row.
type Row struct {
	Key        string
	Label      string
	Calendar   string
	CivilDate  string
	JulianDate string
	UTTime     string
	JDUT       *float64
	AMDayFloat *float64
	AMFull     string
}

// RowFromTable reads a Row from a header-keyed table row.
func RowFromTable(r table.Row) Row {
	return Row{
		Key:        r.Get("key"),
		Label:      r.Get("label"),
		Calendar:   r.Get("calendar"),
		CivilDate:  r.Get("civil_date"),
		JulianDate: r.Get("julian_date"),
		UTTime:     r.Get("UT_time"),
		JDUT:       r.Float("JD_UT"),
		AMDayFloat: r.Float("AM_day_float"),
		AMFull:     r.Get("AM_full"),
	}
}

// Result is the validation outcome for one row.
type Result struct {
	Key            string        `json:"key"`
	Label          string        `json:"label"`
	Calendar       string        `json:"calendar,omitempty"`
	CivilDate      string        `json:"civil_date,omitempty"`
	JulianDate     string        `json:"julian_date,omitempty"`
	UTTime         string        `json:"ut_time,omitempty"`
	JDUT           *float64      `json:"jd_ut"`
	JDFromCalendar *float64      `json:"jd_from_calendar"`
	DeltaJD        *float64      `json:"delta_jd"`
	StatusJD       status.Status `json:"status_jd"`
	AMFromCode     *float64      `json:"am_from_code"`
	AMExpected     *float64      `json:"am_expected"`
	DeltaAM        *float64      `json:"delta_am"`
	StatusAM       status.Status `json:"status_am"`
}

// ValidateRow runs the JD and AM checks. The two halves are independent:
// a failure in one is recorded as that half's ERROR status only.
func ValidateRow(r Row) Result {
	res := Result{
		Key:        r.Key,
		Label:      r.Label,
		Calendar:   r.Calendar,
		CivilDate:  r.CivilDate,
		JulianDate: r.JulianDate,
		UTTime:     r.UTTime,
		JDUT:       r.JDUT,
		AMExpected: r.AMDayFloat,
		StatusJD:   status.NA,
		StatusAM:   status.NA,
	}

	if r.Calendar != "" && strings.TrimSpace(r.CivilDate) != "" && r.JDUT != nil {
		jd, err := jdFromCalendar(r)
		if err != nil {
			res.StatusJD = status.Error(err)
		} else {
			delta := jd - *r.JDUT
			res.JDFromCalendar = &jd
			res.DeltaJD = &delta
			res.StatusJD = status.JD.Classify(delta)
		}
	}

	if r.JDUT != nil && r.AMDayFloat != nil && strings.TrimSpace(r.AMFull) != "" {
		if _, ok := epoch.ParseAMYear(r.AMFull); ok {
			am := epoch.AMFromJD(*r.JDUT) + epoch.MasterCorrection
			delta := am - *r.AMDayFloat
			res.AMFromCode = &am
			res.DeltaAM = &delta
			res.StatusAM = status.AM.Classify(delta)
		} else {
			res.StatusAM = status.NoAMYear
		}
	}

	return res
}

func jdFromCalendar(r Row) (float64, error) {
	system, err := calendar.ParseSystem(r.Calendar)
	if err != nil {
		return 0, err
	}
	year, month, day, err := calendar.ParseCivilDate(r.CivilDate)
	if err != nil {
		return 0, err
	}
	frac, err := calendar.ParseTimeOfDay(r.UTTime)
	if err != nil {
		return 0, err
	}
	return calendar.ToJD(system, year, month, float64(day)+frac)
}

// Report collects the results of one table.
type Report struct {
	Path     string
	Results  []Result
	JDCounts status.Counts
	AMCounts status.Counts
}

// Errors returns the number of rows with an error in either half.
func (r *Report) Errors() int {
	n := 0
	for _, res := range r.Results {
		if res.StatusJD.IsError() || res.StatusAM.IsError() {
			n++
		}
	}
	return n
}

// Validate checks every row of a master table.
func Validate(ctx context.Context, t *table.Table) (*Report, error) {
	if err := t.Require("master", table.Col("key"), table.Col("calendar"), table.Col("civil_date"), table.Col("JD_UT")); err != nil {
		return nil, err
	}

	report := &Report{
		Path:     t.Path,
		Results:  make([]Result, 0, t.Len()),
		JDCounts: status.Counts{},
		AMCounts: status.Counts{},
	}
	for _, row := range t.Rows {
		res := ValidateRow(RowFromTable(row))
		report.Results = append(report.Results, res)
		report.JDCounts.Add(res.StatusJD)
		report.AMCounts.Add(res.StatusAM)
	}

	logging.FromContext(ctx).Info().
		Str("path", t.Path).
		Int("rows", len(report.Results)).
		Int("errors", report.Errors()).
		Interface("jd_status", report.JDCounts).
		Interface("am_status", report.AMCounts).
		Msg("Validated master table")
	return report, nil
}

// ValidateFile reads and validates a master table file.
func ValidateFile(ctx context.Context, path string) (*Report, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, err
	}
	return Validate(ctx, t)
}

// OutputPath returns the conventional output next to the input:
// AMJD_X.csv becomes AMJD_X_validated.csv.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + constants.ValidatedSuffix + ".csv"
}

// Header is the validated table's column order. It carries the columns
// the event reconciler reads.
var Header = []string{
	"key", "label", "calendar", "civil_date", "julian_date", "UT_time",
	"JD_UT", "JD_from_calendar", "delta_JD_days", "status_JD",
	"AM_expected", "AM_from_code_adjusted", "delta_AM_days", "status_AM",
}

// Record renders a result in Header order.
func (r Result) Record() []string {
	return []string{
		r.Key, r.Label, r.Calendar, r.CivilDate, r.JulianDate, r.UTTime,
		table.FormatFloat(r.JDUT), table.FormatFloat(r.JDFromCalendar), table.FormatFloat(r.DeltaJD), string(r.StatusJD),
		table.FormatFloat(r.AMExpected), table.FormatFloat(r.AMFromCode), table.FormatFloat(r.DeltaAM), string(r.StatusAM),
	}
}

// Write writes the report's results to path.
func Write(path string, report *Report) error {
	rows := make([][]string, len(report.Results))
	for i, r := range report.Results {
		rows[i] = r.Record()
	}
	return table.Write(path, Header, rows)
}
