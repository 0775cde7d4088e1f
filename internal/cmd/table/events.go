package table

import (
	"strconv"

	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/table"
)

// EventsToData lists reconciled events. The wide view adds the AM
// comparison and the per-source enrichment columns.
func EventsToData(records []*events.Record, wide bool) Data {
	headers := []string{"Key", "Kind", "Label", "JD UT", "Status JD", "Status AM"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Civil Date", "AM", "Δ AM", "Volcano", "Raw", "Solar", "Lunar")
		align = append(align, AlignLeft, AlignRight, AlignRight, AlignLeft, AlignCenter, AlignRight, AlignRight)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			r.Key,
			FormatText(r.Kind),
			FormatText(r.Label),
			FormatFloat(r.JDUT),
			FormatText(r.StatusJD),
			FormatText(r.StatusAM),
		}
		if wide {
			row = append(row,
				FormatText(r.CivilDate),
				FormatFloat(r.AMFromCodeAdjusted),
				FormatFixed(r.DeltaAMDays, 3),
				FormatText(r.VolcanoName),
				table.FormatBool(r.RawPresent),
				visibleOf(r.TopoSolarVisible, r.TopoSolarSites),
				visibleOf(r.TopoLunarVisible, r.TopoLunarSites),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// EventToData shows every column of one record, blank values as "-".
func EventToData(r *events.Record) Data {
	pairs := make([][2]string, 0, len(events.Columns))
	for _, c := range events.Columns {
		pairs = append(pairs, [2]string{c.String(), orDash(r.Cell(c))})
	}
	return KeyValue(pairs...)
}

func visibleOf(visible, sites int) string {
	if sites == 0 {
		return "-"
	}
	return strconv.Itoa(visible) + "/" + strconv.Itoa(sites)
}
