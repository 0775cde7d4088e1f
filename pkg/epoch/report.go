package epoch

import (
	"strconv"

	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/table"
)

// ReportRow compares one event's reference JD with the JD its AM value maps to.
type ReportRow struct {
	Key        string  `json:"key" yaml:"key"`
	Label      string  `json:"label" yaml:"label"`
	JD         float64 `json:"jd_ut" yaml:"jd_ut"`
	AM         float64 `json:"am" yaml:"am"`
	Recorded   bool    `json:"am_recorded" yaml:"am_recorded"`
	JDFromAM   float64 `json:"jd_from_am" yaml:"jd_from_am"`
	Delta      float64 `json:"delta_days" yaml:"delta_days"`
	Phase      string  `json:"moon_phase" yaml:"moon_phase"`
	PhaseValue float64 `json:"moon_phase_value" yaml:"moon_phase_value"`
}

// Report is the epoch report of a table. Stats covers only rows whose AM
// was recorded; the others are round trips of JD and always agree.
type Report struct {
	Rows  []ReportRow `json:"rows" yaml:"rows"`
	Stats Comparison  `json:"stats" yaml:"stats"`
}

// BuildReport reads key, label, JD_UT and the optional AM_day_float column.
// A recorded AM_day_float carries the master correction, which is removed
// before mapping it back to JD. Rows without a JD are skipped.
func BuildReport(t *table.Table) (*Report, error) {
	if err := t.Require("epoch", table.Col("key"), table.Col("JD_UT")); err != nil {
		return nil, err
	}

	report := &Report{}
	var pairs []Pair
	for _, r := range t.Rows {
		jd := r.Float("JD_UT")
		if jd == nil {
			continue
		}
		row := ReportRow{Key: r.Get("key"), Label: r.Get("label"), JD: *jd, AM: AMFromJD(*jd)}
		if am := r.Float("AM_day_float"); am != nil {
			row.AM = *am - MasterCorrection
			row.Recorded = true
			pairs = append(pairs, Pair{JD: *jd, AM: row.AM})
		}
		row.JDFromAM = JDFromAM(row.AM)
		row.Delta = row.JDFromAM - row.JD
		row.PhaseValue = ephemeris.LunationFraction(row.JD)
		row.Phase = ephemeris.PhaseName(row.PhaseValue)
		report.Rows = append(report.Rows, row)
	}
	report.Stats = Compare(pairs)
	return report, nil
}

// ReportHeader is the epoch report's column order.
var ReportHeader = []string{
	"key", "label", "JD_UT", "AM", "AM_recorded", "JD_from_AM", "delta_days", "moon_phase", "moon_phase_value",
}

// WriteReport writes the report rows to path.
func WriteReport(path string, report *Report) error {
	rows := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = []string{
			r.Key, r.Label,
			table.FormatFloat(&r.JD), table.FormatFloat(&r.AM), table.FormatBool(r.Recorded),
			table.FormatFloat(&r.JDFromAM), table.FormatFloat(&r.Delta),
			r.Phase, strconv.FormatFloat(r.PhaseValue, 'f', 4, 64),
		}
	}
	return table.Write(path, ReportHeader, rows)
}
