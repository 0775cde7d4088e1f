// Package table turns pipeline results into rows for CLI table output.
package table

import (
	"strconv"

	"github.com/agentstation/amjd/internal/cmd/emoji"
	"github.com/agentstation/amjd/pkg/status"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// KeyValue builds a two-column Property/Value table.
func KeyValue(pairs ...[2]string) Data {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// StatusCounts renders per-status counts of one or more checks in
// status.Counts key order.
func StatusCounts(checks []string, counts []status.Counts) Data {
	var rows [][]string
	for i, check := range checks {
		c := counts[i]
		for _, s := range c.Keys() {
			rows = append(rows, []string{check, emoji.ForStatus(s) + " " + s.String(), strconv.Itoa(c[s])})
		}
	}
	return Data{
		Headers:         []string{"Check", "Status", "Rows"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// FormatFloat renders an optional number for display; nil is "-".
func FormatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatFixed renders an optional number with a fixed number of decimals.
func FormatFixed(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// FormatText renders an optional string; nil and "" are "-".
func FormatText(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
