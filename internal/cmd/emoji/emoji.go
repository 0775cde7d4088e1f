// Package emoji provides the symbols the CLI prints next to statuses and
// progress messages.
package emoji

import "github.com/agentstation/amjd/pkg/status"

// Symbol constants for CLI output.
const (
	// Success marks a completed step or an OK comparison.
	Success = "✓"

	// Error marks a failed step, a FAIL comparison or a row error.
	Error = "✗"

	// Warning marks a WARN comparison or a skipped source.
	Warning = "!"

	// Optional marks a value that could not be compared (NA).
	Optional = "-"

	// Range marks a date taken from a JD range midpoint.
	Range = "~"

	// Info represents informational messages.
	Info = "i"
)

// ForStatus returns the symbol for a classification label.
func ForStatus(s status.Status) string {
	switch {
	case s == status.OK:
		return Success
	case s == status.Warn:
		return Warning
	case s == status.Fail, s == "ERROR", s.IsError():
		return Error
	case s == status.Range:
		return Range
	}
	return Optional
}
