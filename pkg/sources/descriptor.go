package sources

import (
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/table"
)

// Descriptor documents a source's conventional file and minimal columns.
type Descriptor struct {
	ID          ID
	File        string
	Description string
	Key         table.Column
	Required    []table.Column
}

var descriptors = []Descriptor{
	{
		ID:          MasterValidatedID,
		File:        constants.MasterValidatedFile,
		Description: "validated master event list",
		Key:         table.Col("key"),
		Required: []table.Column{
			table.Col("key"), table.Col("label"), table.Col("calendar"), table.Col("civil_date"),
			table.Col("JD_UT"), table.Col("status_JD"), table.Col("AM_from_code_adjusted"),
			table.Col("delta_AM_days"), table.Col("status_AM"),
		},
	},
	{
		ID:          GSFCMasterID,
		File:        constants.GSFCMasterFile,
		Description: "GSFC eclipse master batch",
		Key:         table.Col("key", "tag", "id"),
		Required: []table.Column{
			table.Col("key", "tag", "id"), table.Col("JD_UT", "JD_ut", "jd_ut"), table.Col("kind", "type"),
		},
	},
	{
		ID:          GSFCValidationID,
		File:        constants.GSFCValidationFile,
		Description: "GSFC validation table",
		Key:         table.Col("key", "id"),
		Required: []table.Column{
			table.Col("key", "id"), table.Col("JD_UT", "JD_ut", "jd_ut"),
		},
	},
	{
		ID:          VolcanoID,
		File:        constants.VolcanoProcessedFile,
		Description: "processed volcanic eruptions",
		Key:         table.Col("event_id"),
		Required: []table.Column{
			table.Col("event_id"), table.Col("name"), table.Col("vei"), table.Col("calendar_used"),
			table.Col("civil_date_astro"), table.Col("date_mode"), table.Col("jd_ut_final", "jd_ut_calc"),
		},
	},
	{
		ID:          RawMasterlikeID,
		File:        constants.RawMasterlikeFile,
		Description: "raw data normalized to master layout",
		Key:         table.Col("key"),
		Required:    []table.Column{table.Col("key"), table.Col("source_group")},
	},
	{
		ID:          TopoSolarID,
		File:        constants.TopoSolarFile,
		Description: "solar eclipse visibility grid",
		Key:         table.Col("key"),
		Required:    []table.Column{table.Col("key"), table.Col("visible")},
	},
	{
		ID:          TopoLunarID,
		File:        constants.TopoLunarFile,
		Description: "lunar eclipse visibility grid",
		Key:         table.Col("key"),
		Required:    []table.Column{table.Col("key"), table.Col("visible")},
	},
}

// Descriptors returns all source descriptors in reconciliation order.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptors...)
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
