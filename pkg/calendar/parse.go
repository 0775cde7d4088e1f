package calendar

import (
	"strconv"
	"strings"

	"github.com/agentstation/amjd/pkg/errors"
)

// normalizeMinus replaces the Unicode minus sign with ASCII '-'.
func normalizeMinus(s string) string {
	return strings.ReplaceAll(s, "−", "-")
}

// ParseCivilDate parses "Y-M-D" with an optional sign on the year, e.g.
// "2025-10-09", "-0584-05-28", "+1815-04-10" or "−0431-01-01".
func ParseCivilDate(s string) (year, month, day int, err error) {
	text := strings.TrimSpace(normalizeMinus(s))
	sign := 1
	switch {
	case strings.HasPrefix(text, "-"):
		sign = -1
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}

	parts := strings.Split(text, "-")
	if len(parts) != 3 {
		return 0, 0, 0, errors.NewDateParseError(s, "expected Y-M-D")
	}
	var nums [3]int
	for i, p := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(p))
		if convErr != nil {
			return 0, 0, 0, errors.NewDateParseError(s, "non-numeric date component "+strconv.Quote(p))
		}
		nums[i] = n
	}
	return sign * nums[0], nums[1], nums[2], nil
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS[.sss]" into a day fraction.
// Blank input is midnight.
func ParseTimeOfDay(s string) (float64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, nil
	}
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, errors.NewDateParseError(s, "expected HH:MM:SS")
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 24 {
		return 0, errors.NewDateParseError(s, "invalid hour")
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, errors.NewDateParseError(s, "invalid minute")
	}
	var sec float64
	if len(parts) == 3 {
		sec, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || sec < 0 || sec >= 61 {
			return 0, errors.NewDateParseError(s, "invalid second")
		}
	}
	return (float64(h*3600+m*60) + sec) / 86400, nil
}
