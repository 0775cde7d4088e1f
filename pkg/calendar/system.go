// Package calendar converts civil dates in ten calendar systems to Julian Day
// numbers, and Gregorian/Julian Julian Days back to civil dates.
//
// All formulas are proleptic with no reform switch. Except for AM, the day
// argument is truncated to a whole day before conversion; callers that need
// time-of-day precision must carry it separately.
package calendar

import (
	"sort"
	"strings"

	"github.com/agentstation/amjd/pkg/errors"
)

// System identifies a calendar system.
type System string

// Supported calendar systems.
const (
	Gregorian System = "gregorian"
	Julian    System = "julian"
	Islamic   System = "islamic"
	Persian   System = "persian"
	Chinese   System = "chinese"
	Hindu     System = "hindu"
	Coptic    System = "coptic"
	Ethiopian System = "ethiopian"
	FrenchRev System = "french_rev"
	Maya      System = "maya"
	AM        System = "am"
)

// String returns the canonical lower-case name.
func (s System) String() string {
	return string(s)
}

// Reversible reports whether FromJD supports the system.
func (s System) Reversible() bool {
	return s == Gregorian || s == Julian
}

var converters = map[System]func(year, month, day int) float64{
	Gregorian: gregorianToJD,
	Julian:    julianToJD,
	Islamic:   islamicToJD,
	Persian:   persianToJD,
	Chinese:   chineseToJD,
	Hindu:     hinduToJD,
	Coptic:    copticToJD,
	Ethiopian: ethiopianToJD,
	FrenchRev: frenchRevToJD,
	Maya:      mayaToJD,
}

// Systems returns every supported system name in sorted order.
func Systems() []System {
	out := make([]System, 0, len(converters)+1)
	for s := range converters {
		out = append(out, s)
	}
	out = append(out, AM)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseSystem normalizes a calendar name (case and surrounding whitespace
// are ignored) and rejects anything outside the supported set.
func ParseSystem(name string) (System, error) {
	s := System(strings.ToLower(strings.TrimSpace(name)))
	if s == AM {
		return s, nil
	}
	if _, ok := converters[s]; ok {
		return s, nil
	}
	return "", errors.NewUnsupportedSystemError(name)
}
