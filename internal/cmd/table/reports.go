package table

import (
	"strconv"

	"github.com/agentstation/amjd/pkg/eclipse"
	"github.com/agentstation/amjd/pkg/epoch"
	"github.com/agentstation/amjd/pkg/instant"
	"github.com/agentstation/amjd/pkg/rawdata"
	"github.com/agentstation/amjd/pkg/reconciler"
	"github.com/agentstation/amjd/pkg/sources"
	"github.com/agentstation/amjd/pkg/summary"
	"github.com/agentstation/amjd/pkg/validator"
	"github.com/agentstation/amjd/pkg/volcano"
)

// InstantToData renders a converted instant as a property table.
func InstantToData(info *instant.Info) Data {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return KeyValue(
		[2]string{"JD", f(info.Time.JD)},
		[2]string{"AM", f(info.Time.AM)},
		[2]string{"Gregorian", info.Time.Gregorian},
		[2]string{"Julian", info.Time.Julian},
		[2]string{"Local time", info.Time.LocalDateTime},
		[2]string{"Moon phase", info.Moon.PhaseName},
		[2]string{"Illumination", strconv.FormatFloat(info.Moon.Illumination, 'f', 3, 64)},
		[2]string{"Elongation", strconv.FormatFloat(info.Geometry.ElongationDeg, 'f', 2, 64) + "°"},
	)
}

// ValidationToData lists validated master rows; the narrow view keeps only
// the statuses.
func ValidationToData(report *validator.Report, wide bool) Data {
	headers := []string{"Key", "Calendar", "Status JD", "Status AM"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "JD UT", "JD Calc", "Δ JD", "AM Code", "AM Expected", "Δ AM")
		align = append(align, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight)
	}

	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		row := []string{orDash(r.Key), orDash(r.Calendar), r.StatusJD.String(), r.StatusAM.String()}
		if wide {
			row = append(row,
				FormatFloat(r.JDUT),
				FormatFloat(r.JDFromCalendar),
				FormatFixed(r.DeltaJD, 6),
				FormatFloat(r.AMFromCode),
				FormatFloat(r.AMExpected),
				FormatFixed(r.DeltaAM, 6),
			)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// RawToData lists normalized raw rows.
func RawToData(r *rawdata.Result) Data {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			orDash(row.Key),
			orDash(row.Calendar),
			FormatFloat(row.JDSource),
			FormatFloat(row.JDCalc),
			FormatFixed(row.DeltaJD, 6),
			row.Status.String(),
			orDash(row.Error),
		})
	}
	return Data{
		Headers:         []string{"Key", "Calendar", "JD UT", "JD Calc", "Δ JD", "Status", "Error"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft},
	}
}

// VolcanoToData lists dated eruptions.
func VolcanoToData(r *volcano.Result) Data {
	rows := make([][]string, 0, len(r.Rows))
	for _, p := range r.Rows {
		rows = append(rows, []string{
			orDash(p.EventID),
			orDash(p.Name),
			orDash(p.VEI),
			orDash(p.CivilDateAstro),
			p.DateMode,
			FormatFloat(p.JDFinal),
			p.Status.String(),
			orDash(p.Error),
		})
	}
	return Data{
		Headers:         []string{"Event", "Name", "VEI", "Date", "Mode", "JD UT", "Status", "Error"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
}

// SummaryToData flattens dataset metrics.
func SummaryToData(ds []summary.Dataset) Data {
	return Data{
		Headers:         summary.Header,
		Rows:            summary.Flatten(ds),
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// ReconcileToData lists per-source row counts of a reconciliation run in
// pass order.
func ReconcileToData(res *reconciler.Result) Data {
	var rows [][]string
	for _, id := range sources.IDs() {
		st, ok := res.SourceStats[id]
		if !ok {
			continue
		}
		if st.Missing {
			rows = append(rows, []string{id.String(), "missing", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			id.String(),
			orDash(st.Path),
			strconv.Itoa(st.Rows),
			strconv.Itoa(st.Processed),
			strconv.Itoa(st.Skipped),
			strconv.Itoa(st.Errored),
		})
	}
	return Data{
		Headers:         []string{"Source", "Path", "Rows", "Processed", "Skipped", "Errored"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// GridToData lists visibility grid cells.
func GridToData(cells []eclipse.Cell) Data {
	rows := make([][]string, 0, len(cells))
	for _, c := range cells {
		row := []string{c.Anchor.Key, c.Site.Name}
		switch {
		case c.Err != nil:
			row = append(row, "-", "-", "-", c.Err.Error())
		case c.Result != nil:
			v := c.Result
			row = append(row,
				strconv.FormatBool(v.Visible),
				orDash(v.Classification),
				strconv.FormatFloat(v.CoveragePercent(), 'f', 1, 64)+"%",
				"-",
			)
		}
		rows = append(rows, row)
	}
	return Data{
		Headers:         []string{"Key", "Site", "Visible", "Class", "Coverage", "Error"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignRight, AlignLeft},
	}
}

// EpochToData renders the AM/JD residual statistics, or every report row
// when rows is set.
func EpochToData(report *epoch.Report, rows bool) Data {
	if !rows {
		st := report.Stats
		return KeyValue(
			[2]string{"Rows", strconv.Itoa(len(report.Rows))},
			[2]string{"Recorded AM", strconv.Itoa(st.Count)},
			[2]string{"Mean delta (days)", FormatFixed(&st.Mean, 6)},
			[2]string{"Max |delta| (days)", FormatFixed(&st.MaxAbs, 6)},
			[2]string{"RMS (days)", FormatFixed(&st.RMS, 6)},
		)
	}
	out := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		am := "-"
		if r.Recorded {
			am = FormatFixed(&r.AM, 2)
		}
		out[i] = []string{r.Key, orDash(r.Label), FormatFixed(&r.JD, 5), am, FormatFixed(&r.Delta, 6), r.Phase, FormatFixed(&r.PhaseValue, 4)}
	}
	return Data{
		Headers:         []string{"Event", "Label", "JD UT", "AM", "Delta", "Moon", "Phase"},
		Rows:            out,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignRight},
	}
}
