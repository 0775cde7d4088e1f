// Package events defines the canonical reconciled event record and the
// keyed index that a reconciliation run builds.
package events

import (
	"fmt"
	"strconv"

	"github.com/agentstation/amjd/pkg/table"
)

// Field names a column of the event index.
type Field string

// String returns the column name.
func (f Field) String() string {
	return string(f)
}

// Event index columns.
const (
	FieldKey                Field = "key"
	FieldLabel              Field = "label"
	FieldKind               Field = "kind"
	FieldCalendar           Field = "calendar"
	FieldCivilDate          Field = "civil_date"
	FieldJulianDate         Field = "julian_date"
	FieldJDUT               Field = "jd_ut"
	FieldJDUTSource         Field = "jd_ut_source"
	FieldStatusJD           Field = "status_jd"
	FieldAMFromCodeAdjusted Field = "am_from_code_adjusted"
	FieldDeltaAMDays        Field = "delta_am_days"
	FieldStatusAM           Field = "status_am"
	FieldVolcanoName        Field = "volcano_name"
	FieldVolcanoVEI         Field = "volcano_vei"
	FieldVolcanoDateMode    Field = "volcano_date_mode"
	FieldRawPresent         Field = "raw_present"
	FieldRawSourceGroup     Field = "raw_source_group"
	FieldTopoSolarSites     Field = "topo_solar_sites"
	FieldTopoSolarVisible   Field = "topo_solar_visible"
	FieldTopoLunarSites     Field = "topo_lunar_sites"
	FieldTopoLunarVisible   Field = "topo_lunar_visible"
)

// Columns is the fixed output column order.
var Columns = []Field{
	FieldKey, FieldLabel, FieldKind, FieldCalendar, FieldCivilDate, FieldJulianDate,
	FieldJDUT, FieldJDUTSource, FieldStatusJD,
	FieldAMFromCodeAdjusted, FieldDeltaAMDays, FieldStatusAM,
	FieldVolcanoName, FieldVolcanoVEI, FieldVolcanoDateMode,
	FieldRawPresent, FieldRawSourceGroup,
	FieldTopoSolarSites, FieldTopoSolarVisible, FieldTopoLunarSites, FieldTopoLunarVisible,
}

// Header returns Columns as strings.
func Header() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = string(c)
	}
	return out
}

// Kind is the value type a field holds.
type Kind int

// Field value kinds.
const (
	Text Kind = iota
	Number
	Flag
	Counter
)

// KindOf returns the value kind of a field.
func KindOf(f Field) Kind {
	switch f {
	case FieldJDUT, FieldAMFromCodeAdjusted, FieldDeltaAMDays:
		return Number
	case FieldRawPresent:
		return Flag
	case FieldTopoSolarSites, FieldTopoSolarVisible, FieldTopoLunarSites, FieldTopoLunarVisible:
		return Counter
	}
	return Text
}

// Record is one reconciled event. Pointer fields are nil until a source
// supplies a value.
type Record struct {
	Key                string   `json:"key" yaml:"key"`
	Label              *string  `json:"label,omitempty" yaml:"label,omitempty"`
	Kind               *string  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Calendar           *string  `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	CivilDate          *string  `json:"civil_date,omitempty" yaml:"civil_date,omitempty"`
	JulianDate         *string  `json:"julian_date,omitempty" yaml:"julian_date,omitempty"`
	JDUT               *float64 `json:"jd_ut,omitempty" yaml:"jd_ut,omitempty"`
	JDUTSource         *string  `json:"jd_ut_source,omitempty" yaml:"jd_ut_source,omitempty"`
	StatusJD           *string  `json:"status_jd,omitempty" yaml:"status_jd,omitempty"`
	AMFromCodeAdjusted *float64 `json:"am_from_code_adjusted,omitempty" yaml:"am_from_code_adjusted,omitempty"`
	DeltaAMDays        *float64 `json:"delta_am_days,omitempty" yaml:"delta_am_days,omitempty"`
	StatusAM           *string  `json:"status_am,omitempty" yaml:"status_am,omitempty"`
	VolcanoName        *string  `json:"volcano_name,omitempty" yaml:"volcano_name,omitempty"`
	VolcanoVEI         *string  `json:"volcano_vei,omitempty" yaml:"volcano_vei,omitempty"`
	VolcanoDateMode    *string  `json:"volcano_date_mode,omitempty" yaml:"volcano_date_mode,omitempty"`
	RawPresent         bool     `json:"raw_present" yaml:"raw_present"`
	RawSourceGroup     *string  `json:"raw_source_group,omitempty" yaml:"raw_source_group,omitempty"`
	TopoSolarSites     int      `json:"topo_solar_sites" yaml:"topo_solar_sites"`
	TopoSolarVisible   int      `json:"topo_solar_visible" yaml:"topo_solar_visible"`
	TopoLunarSites     int      `json:"topo_lunar_sites" yaml:"topo_lunar_sites"`
	TopoLunarVisible   int      `json:"topo_lunar_visible" yaml:"topo_lunar_visible"`
}

// New returns an empty record for key.
func New(key string) *Record {
	return &Record{Key: key}
}

func (r *Record) text(f Field) **string {
	switch f {
	case FieldLabel:
		return &r.Label
	case FieldKind:
		return &r.Kind
	case FieldCalendar:
		return &r.Calendar
	case FieldCivilDate:
		return &r.CivilDate
	case FieldJulianDate:
		return &r.JulianDate
	case FieldJDUTSource:
		return &r.JDUTSource
	case FieldStatusJD:
		return &r.StatusJD
	case FieldStatusAM:
		return &r.StatusAM
	case FieldVolcanoName:
		return &r.VolcanoName
	case FieldVolcanoVEI:
		return &r.VolcanoVEI
	case FieldVolcanoDateMode:
		return &r.VolcanoDateMode
	case FieldRawSourceGroup:
		return &r.RawSourceGroup
	}
	return nil
}

func (r *Record) number(f Field) **float64 {
	switch f {
	case FieldJDUT:
		return &r.JDUT
	case FieldAMFromCodeAdjusted:
		return &r.AMFromCodeAdjusted
	case FieldDeltaAMDays:
		return &r.DeltaAMDays
	}
	return nil
}

func (r *Record) counter(f Field) *int {
	switch f {
	case FieldTopoSolarSites:
		return &r.TopoSolarSites
	case FieldTopoSolarVisible:
		return &r.TopoSolarVisible
	case FieldTopoLunarSites:
		return &r.TopoLunarSites
	case FieldTopoLunarVisible:
		return &r.TopoLunarVisible
	}
	return nil
}

// IsSet reports whether a field holds a value. Flags count as set once
// true; counters once non-zero.
func (r *Record) IsSet(f Field) bool {
	return r.Get(f) != nil
}

// Get returns the field value as string, float64, bool or int, or nil
// when the field is unset.
func (r *Record) Get(f Field) any {
	if f == FieldKey {
		return r.Key
	}
	switch KindOf(f) {
	case Number:
		if p := r.number(f); p != nil && *p != nil {
			return **p
		}
	case Flag:
		if r.RawPresent {
			return true
		}
	case Counter:
		if p := r.counter(f); p != nil && *p != 0 {
			return *p
		}
	default:
		if p := r.text(f); p != nil && *p != nil {
			return **p
		}
	}
	return nil
}

// Set stores v in field f. The dynamic type of v must match the field kind.
func (r *Record) Set(f Field, v any) error {
	switch KindOf(f) {
	case Number:
		n, ok := v.(float64)
		if p := r.number(f); ok && p != nil {
			*p = &n
			return nil
		}
	case Flag:
		if b, ok := v.(bool); ok {
			r.RawPresent = b
			return nil
		}
	case Counter:
		if n, ok := v.(int); ok {
			*r.counter(f) = n
			return nil
		}
	default:
		s, ok := v.(string)
		if p := r.text(f); ok && p != nil {
			*p = &s
			return nil
		}
	}
	return fmt.Errorf("field %s cannot hold %T", f, v)
}

// Add increments a counter field.
func (r *Record) Add(f Field, n int) error {
	p := r.counter(f)
	if p == nil {
		return fmt.Errorf("field %s is not a counter", f)
	}
	*p += n
	return nil
}

// Cell formats a field for the index file. Unset values are blank.
func (r *Record) Cell(f Field) string {
	switch KindOf(f) {
	case Flag:
		return table.FormatBool(r.RawPresent)
	case Counter:
		return strconv.Itoa(*r.counter(f))
	}
	switch v := r.Get(f).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Cells formats the record in Columns order.
func (r *Record) Cells() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r.Cell(c)
	}
	return out
}

// FromRow rebuilds a record from an index row. Blank cells stay unset.
func FromRow(row table.Row) *Record {
	r := New(row.Get(string(FieldKey)))
	for _, c := range Columns[1:] {
		cell := row.Get(string(c))
		if cell == "" {
			continue
		}
		switch KindOf(c) {
		case Number:
			if v := table.ParseFloat(cell); v != nil {
				_ = r.Set(c, *v)
			}
		case Flag:
			if v := table.ParseBool(cell); v != nil {
				r.RawPresent = *v
			}
		case Counter:
			if n, err := strconv.Atoi(cell); err == nil {
				_ = r.Set(c, n)
			}
		default:
			_ = r.Set(c, cell)
		}
	}
	return r
}
