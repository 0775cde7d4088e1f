package reconciler

import (
	"strings"

	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/sources"
	"github.com/agentstation/amjd/pkg/table"
)

// assign copies the first non-blank cell of from into field. A non-nil
// value is a constant written for every row instead.
type assign struct {
	field events.Field
	from  table.Column
	value any
}

// counter accumulates one site per row and one visible per truthy row.
type counter struct {
	sites   events.Field
	visible events.Field
}

// pass integrates one source table into the index.
type pass struct {
	source  sources.ID
	key     table.Column
	assigns []assign
	jd      table.Column
	counter *counter
}

// isNumeric reports whether a field is parsed as a number.
func isNumeric(f events.Field) bool {
	return events.KindOf(f) == events.Number
}

var defaultPasses = []pass{
	{
		source: sources.MasterValidatedID,
		key:    table.Col("key"),
		assigns: []assign{
			{field: events.FieldLabel, from: table.Col("label")},
			{field: events.FieldCalendar, from: table.Col("calendar")},
			{field: events.FieldCivilDate, from: table.Col("civil_date")},
			{field: events.FieldJulianDate, from: table.Col("julian_date")},
			{field: events.FieldStatusJD, from: table.Col("status_JD")},
			{field: events.FieldAMFromCodeAdjusted, from: table.Col("AM_from_code_adjusted")},
			{field: events.FieldDeltaAMDays, from: table.Col("delta_AM_days")},
			{field: events.FieldStatusAM, from: table.Col("status_AM")},
		},
		jd: table.Col("JD_UT"),
	},
	{
		source: sources.GSFCMasterID,
		key:    table.Col("key", "tag", "id"),
		assigns: []assign{
			{field: events.FieldLabel, from: table.Col("label")},
			{field: events.FieldCalendar, from: table.Col("calendar")},
			{field: events.FieldCivilDate, from: table.Col("civil_date")},
			{field: events.FieldJulianDate, from: table.Col("julian_date")},
			{field: events.FieldKind, from: table.Col("kind", "type")},
		},
		jd: table.Col("JD_UT", "JD_ut", "jd_ut"),
	},
	{
		source: sources.GSFCValidationID,
		key:    table.Col("key", "id"),
		assigns: []assign{
			{field: events.FieldLabel, from: table.Col("label", "event")},
			{field: events.FieldCalendar, from: table.Col("calendar")},
			{field: events.FieldJulianDate, from: table.Col("julian_date")},
		},
		jd: table.Col("JD_UT", "JD_ut", "jd_ut"),
	},
	{
		source: sources.VolcanoID,
		key:    table.Col("event_id"),
		assigns: []assign{
			{field: events.FieldKind, value: "volcano"},
			{field: events.FieldLabel, from: table.Col("name")},
			{field: events.FieldCalendar, from: table.Col("calendar_used")},
			{field: events.FieldCivilDate, from: table.Col("civil_date_astro")},
			{field: events.FieldVolcanoName, from: table.Col("name")},
			{field: events.FieldVolcanoVEI, from: table.Col("vei")},
			{field: events.FieldVolcanoDateMode, from: table.Col("date_mode")},
		},
		jd: table.Col("jd_ut_final", "jd_ut_calc"),
	},
	{
		source: sources.RawMasterlikeID,
		key:    table.Col("key"),
		assigns: []assign{
			{field: events.FieldRawPresent, value: true},
			{field: events.FieldRawSourceGroup, from: table.Col("source_group")},
		},
	},
	{
		source:  sources.TopoSolarID,
		key:     table.Col("key"),
		counter: &counter{sites: events.FieldTopoSolarSites, visible: events.FieldTopoSolarVisible},
	},
	{
		source:  sources.TopoLunarID,
		key:     table.Col("key"),
		counter: &counter{sites: events.FieldTopoLunarSites, visible: events.FieldTopoLunarVisible},
	},
}

// extract returns the assignment's value for row, or nil when absent.
func (a assign) extract(row table.Row) any {
	if a.value != nil {
		return a.value
	}
	if isNumeric(a.field) {
		if v := row.Float(a.from...); v != nil {
			return *v
		}
		return nil
	}
	if s := row.First(a.from...); s != "" {
		return s
	}
	return nil
}

// apply integrates one row. It returns false when the row has no key.
func (p pass) apply(m *merger, x *events.Index, row table.Row) (bool, error) {
	key := row.First(p.key...)
	if key == "" {
		return false, nil
	}
	rec, _ := x.GetOrCreate(key)

	for _, a := range p.assigns {
		if _, err := m.write(rec, p.source, a.field, a.extract(row)); err != nil {
			return true, err
		}
	}

	if len(p.jd) > 0 {
		if jd := row.Float(p.jd...); jd != nil {
			ok, err := m.write(rec, p.source, events.FieldJDUT, *jd)
			if err != nil {
				return true, err
			}
			if ok {
				if _, err := m.write(rec, p.source, events.FieldJDUTSource, string(p.source)); err != nil {
					return true, err
				}
			}
		}
	}

	if p.counter != nil {
		if _, err := m.write(rec, p.source, p.counter.sites, 1); err != nil {
			return true, err
		}
		if v := row.Bool("visible"); v != nil && *v {
			if _, err := m.write(rec, p.source, p.counter.visible, 1); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}

// rowHasError reports whether a row carries a recorded data-quality error.
func rowHasError(row table.Row) bool {
	if row.Get("error") != "" {
		return true
	}
	for _, col := range []string{"status_JD", "status_AM", "status_jd", "status_am"} {
		if strings.HasPrefix(row.Get(col), "ERROR") {
			return true
		}
	}
	return false
}
