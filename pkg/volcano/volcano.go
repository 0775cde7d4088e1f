// Package volcano turns raw eruption records into dated events. Exactly
// dated eruptions are converted through the calendar engine; eruptions
// known only by a JD range are placed at the range midpoint.
package volcano

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentstation/amjd/pkg/calendar"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/status"
	"github.com/agentstation/amjd/pkg/table"
)

// RawColumns is the raw eruption schema.
var RawColumns = []string{
	"event_id", "name", "gvp_volcano_number", "location", "vei", "date_kind",
	"year", "era", "month", "day", "time_utc", "calendar_used",
	"jd_ut", "jd_min", "jd_max", "time_quality", "notes", "sources",
}

// Date modes.
const (
	ModeExact       = "exact"
	ModeExactApprox = "exact_approx"
	ModeRange       = "range_midpoint"
	ModeNone        = "none"
)

// Eruption is one raw record.
type Eruption struct {
	EventID          string
	Name             string
	GVPVolcanoNumber string
	Location         string
	VEI              string
	DateKind         string
	Year             *int
	Era              string
	Month            *int
	Day              *int
	TimeUTC          string
	CalendarUsed     string
	JDSource         *float64
	JDMin            *float64
	JDMax            *float64
	TimeQuality      string
	Notes            string
	Sources          string
}

// EruptionFromRow reads a raw record.
func EruptionFromRow(r table.Row) Eruption {
	return Eruption{
		EventID:          r.Get("event_id"),
		Name:             r.Get("name"),
		GVPVolcanoNumber: r.Get("gvp_volcano_number"),
		Location:         r.Get("location"),
		VEI:              r.Get("vei"),
		DateKind:         r.Get("date_kind"),
		Year:             r.Int("year"),
		Era:              r.Get("era"),
		Month:            r.Int("month"),
		Day:              r.Int("day"),
		TimeUTC:          r.Get("time_utc"),
		CalendarUsed:     r.Get("calendar_used"),
		JDSource:         r.Float("jd_ut"),
		JDMin:            r.Float("jd_min"),
		JDMax:            r.Float("jd_max"),
		TimeQuality:      r.Get("time_quality"),
		Notes:            r.Get("notes"),
		Sources:          r.Get("sources"),
	}
}

// AstroYear converts a historical year to an astronomical one: BCE/BC
// years map to 1−year, everything else is unchanged.
func AstroYear(year int, era string) int {
	switch strings.ToUpper(strings.TrimSpace(era)) {
	case "BCE", "BC":
		return 1 - year
	}
	return year
}

// SystemFor picks the conversion system named by a free-text calendar
// field. Julian wins when both names appear.
func SystemFor(calendarUsed string) (calendar.System, bool) {
	c := strings.ToLower(calendarUsed)
	switch {
	case strings.Contains(c, "julian"):
		return calendar.Julian, true
	case strings.Contains(c, "gregorian"):
		return calendar.Gregorian, true
	}
	return "", false
}

// Processed is a dated eruption.
type Processed struct {
	Eruption
	System         calendar.System
	YearAstro      *int
	JDCalc         *float64
	JDFinal        *float64
	DeltaJD        *float64
	Status         status.Status
	CivilDateAstro string
	ApproxDate     bool
	DateMode       string
	MidpointTime   string
	Error          string
}

// Process dates one eruption.
func Process(e Eruption) Processed {
	p := Processed{Eruption: e, Status: status.NA, DateMode: ModeNone}
	system, known := SystemFor(e.CalendarUsed)
	if known {
		p.System = system
	}

	switch {
	case e.Year != nil:
		year := AstroYear(*e.Year, e.Era)
		month, day := 1, 1
		if e.Month != nil {
			month = *e.Month
		}
		if e.Day != nil {
			day = *e.Day
		}
		p.YearAstro = &year
		p.ApproxDate = e.Month == nil || e.Day == nil
		p.CivilDateAstro = calendar.FormatDate(year, month, day)
		p.DateMode = ModeExact
		if p.ApproxDate {
			p.DateMode = ModeExactApprox
		}
		if !known {
			p.Error = fmt.Sprintf("unknown calendar_used %q", e.CalendarUsed)
			return p
		}

		frac, err := calendar.ParseTimeOfDay(e.TimeUTC)
		if err != nil {
			p.Error = err.Error()
			return p
		}
		jd, err := calendar.ToJD(system, year, month, float64(day)+frac)
		if err != nil {
			p.Error = err.Error()
			return p
		}
		p.JDCalc = &jd
		p.JDFinal = &jd
		if e.JDSource != nil {
			delta := jd - *e.JDSource
			p.DeltaJD = &delta
			p.Status = status.JD.Classify(delta)
			p.JDFinal = e.JDSource
		}

	case e.JDMin != nil || e.JDMax != nil:
		if !known {
			p.Error = fmt.Sprintf("unknown calendar_used %q for range", e.CalendarUsed)
			return p
		}
		center := midpoint(e.JDMin, e.JDMax)
		civil, err := calendar.FromJD(center, system)
		if err != nil {
			p.Error = err.Error()
			return p
		}
		p.YearAstro = &civil.Year
		p.CivilDateAstro = civil.Date()
		p.MidpointTime = civil.Clock()
		p.ApproxDate = true
		p.DateMode = ModeRange
		p.JDCalc = &center
		p.JDFinal = &center
		p.Status = status.Range

	default:
		p.Error = "no year and no jd_min/jd_max"
	}
	return p
}

func midpoint(lo, hi *float64) float64 {
	switch {
	case lo != nil && hi != nil:
		return 0.5 * (*lo + *hi)
	case lo != nil:
		return *lo
	}
	return *hi
}

// Result is a processed eruption table.
type Result struct {
	Rows []Processed
}

// Errors returns the number of eruptions that could not be dated.
func (r *Result) Errors() int {
	n := 0
	for _, p := range r.Rows {
		if p.Error != "" {
			n++
		}
	}
	return n
}

// ProcessTable dates every eruption in a raw table.
func ProcessTable(ctx context.Context, t *table.Table) (*Result, error) {
	cols := make([]table.Column, len(RawColumns))
	for i, c := range RawColumns {
		cols[i] = table.Col(c)
	}
	if err := t.Require("volcano_raw", cols...); err != nil {
		return nil, err
	}

	res := &Result{Rows: make([]Processed, 0, t.Len())}
	modes := map[string]int{}
	for _, row := range t.Rows {
		p := Process(EruptionFromRow(row))
		modes[p.DateMode]++
		res.Rows = append(res.Rows, p)
	}

	logging.FromContext(ctx).Info().
		Str("path", t.Path).
		Int("rows", len(res.Rows)).
		Int("errors", res.Errors()).
		Interface("date_modes", modes).
		Msg("Processed volcanic eruptions")
	return res, nil
}

// Header is the processed table's column order.
var Header = []string{
	"event_id", "name", "gvp_volcano_number", "location", "vei", "date_kind", "time_quality",
	"year", "era", "year_astro", "month", "day", "time_utc", "calendar_used", "system",
	"jd_ut_src", "jd_min", "jd_max", "jd_ut_calc", "jd_ut_final", "delta_jd_calc", "delta_status",
	"civil_date_astro", "approx_date", "date_mode", "time_mid_utc_from_range",
	"notes", "sources", "error", "AM_day_float", "AM_full",
}

// Record renders a processed eruption in Header order.
func (p Processed) Record() []string {
	return []string{
		p.EventID, p.Name, p.GVPVolcanoNumber, p.Location, p.VEI, p.DateKind, p.TimeQuality,
		formatInt(p.Year), p.Era, formatInt(p.YearAstro), formatInt(p.Month), formatInt(p.Day), p.TimeUTC, p.CalendarUsed, string(p.System),
		table.FormatFloat(p.JDSource), table.FormatFloat(p.JDMin), table.FormatFloat(p.JDMax),
		table.FormatFloat(p.JDCalc), table.FormatFloat(p.JDFinal), table.FormatFloat(p.DeltaJD), string(p.Status),
		p.CivilDateAstro, table.FormatBool(p.ApproxDate), p.DateMode, p.MidpointTime,
		p.Notes, p.Sources, p.Error, "", "",
	}
}

// Write writes processed eruptions to path.
func Write(path string, r *Result) error {
	rows := make([][]string, len(r.Rows))
	for i, p := range r.Rows {
		rows[i] = p.Record()
	}
	return table.Write(path, Header, rows)
}

// OutputPath places the processed file next to the raw input.
func OutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), constants.VolcanoProcessedFile)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
