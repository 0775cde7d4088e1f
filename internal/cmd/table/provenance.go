package table

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/amjd/pkg/provenance"
)

// ProvenanceToData converts a provenance report to one table. Each field's
// write attempts are listed in run order; the applied value in force at the
// end of the run is marked with →. Only fields matching one of patterns are
// shown; no patterns shows every field.
func ProvenanceToData(report *provenance.Report, patterns []string) Data {
	var rows [][]string

	keys := make([]string, 0, len(report.Events))
	for key := range report.Events {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ev := report.Events[key]

		fields := make([]string, 0, len(ev.Fields))
		for field := range ev.Fields {
			if MatchField(field, patterns) {
				fields = append(fields, field)
			}
		}
		sort.Strings(fields)

		for fi, field := range fields {
			fp := ev.Fields[field]
			for i, entry := range fp.History {
				eventKey, fieldName := "", ""
				if i == 0 {
					fieldName = field
					if fi == 0 {
						eventKey = key
					}
				}

				current := ""
				if entry.Applied && entry.Sequence == fp.Current.Sequence {
					current = "→"
				}

				rows = append(rows, []string{
					eventKey,
					fieldName,
					current,
					formatValue(entry.Value),
					entry.Source,
					entry.Policy,
					strconv.FormatBool(entry.Applied),
					entry.Reason,
				})
			}
		}
	}

	return Data{
		Headers: []string{"Event", "Field", "Curr", "Value", "Source", "Policy", "Applied", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Event
			AlignLeft,   // Field
			AlignCenter, // Curr
			AlignLeft,   // Value
			AlignLeft,   // Source
			AlignLeft,   // Policy
			AlignCenter, // Applied
			AlignLeft,   // Reason
		},
	}
}

// MatchField checks if a field matches any of the provided glob patterns,
// case-insensitively. A trailing "_*" also matches the bare prefix, so
// "topo_*" selects every topo counter.
func MatchField(field string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	fieldLower := strings.ToLower(field)
	for _, pattern := range patterns {
		patternLower := strings.ToLower(pattern)

		if matched, err := filepath.Match(patternLower, fieldLower); err == nil && matched {
			return true
		}
		if prefix, ok := strings.CutSuffix(patternLower, "_*"); ok && fieldLower == prefix {
			return true
		}
	}
	return false
}

// formatValue renders a provenance value for display. Scalars are printed
// directly; anything else goes through YAML.
func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "<nil>"
	case string:
		if v == "" {
			return "<empty>"
		}
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}

	out, err := yaml.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return strings.TrimSuffix(string(out), "\n")
}
