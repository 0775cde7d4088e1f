package calendar

import (
	"math"

	"github.com/agentstation/amjd/pkg/epoch"
	"github.com/agentstation/amjd/pkg/errors"
)

// ToJD converts a civil date to a Julian Day.
//
// For AM the day argument is an AM day count and is passed through the epoch
// model unchanged. For every other system the day is truncated toward zero
// and the fraction is dropped.
func ToJD(system System, year, month int, day float64) (float64, error) {
	if system == AM {
		return epoch.JDFromAM(day), nil
	}
	conv, ok := converters[system]
	if !ok {
		return 0, errors.NewUnsupportedSystemError(string(system))
	}
	return conv(year, month, int(day)), nil
}

// Convert parses the system name and converts in one step. It returns both
// the Julian Day and the AM day value.
func Convert(name string, year, month int, day float64) (jd, am float64, err error) {
	system, err := ParseSystem(name)
	if err != nil {
		return 0, 0, err
	}
	jd, err = ToJD(system, year, month, day)
	if err != nil {
		return 0, 0, err
	}
	return jd, epoch.AMFromJD(jd), nil
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the non-negative remainder matching floorDiv.
func floorMod(a, b int) int {
	return a - b*floorDiv(a, b)
}

// marchYear shifts a date to a March-based year anchored 4800 years back so
// that every intermediate stays non-negative for historical dates.
func marchYear(year, month int) (y, m int) {
	a := floorDiv(14-month, 12)
	return year + 4800 - a, month + 12*a - 3
}

func gregorianToJD(year, month, day int) float64 {
	y, m := marchYear(year, month)
	jdn := day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
	return float64(jdn) + 0.5
}

func julianToJD(year, month, day int) float64 {
	y, m := marchYear(year, month)
	jdn := day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - 32083
	return float64(jdn) + 0.5
}

// islamicToJD uses the tabular (arithmetic) Islamic calendar.
func islamicToJD(year, month, day int) float64 {
	return float64(day) +
		math.Ceil(29.5*float64(month-1)) +
		float64((year-1)*354) +
		math.Floor(float64(3+11*year)/30) +
		1948439.5
}

// persianToJD uses the 2820-year arithmetic cycle.
func persianToJD(year, month, day int) float64 {
	epbase := year - 473
	if year >= 0 {
		epbase = year - 474
	}
	epyear := 474 + floorMod(epbase, 2820)

	monthDays := (month-1)*30 + 6
	if month <= 7 {
		monthDays = (month - 1) * 31
	}

	return float64(day) +
		float64(monthDays) +
		math.Floor(float64(epyear*682-110)/2816) +
		float64((epyear-1)*365) +
		float64(floorDiv(epbase, 2820))*1029983 +
		1948320.5
}

// chineseToJD is a mean-year, mean-month approximation with no intercalation.
func chineseToJD(year, month, day int) float64 {
	return 758325.5 + float64(year-1)*365.2422 + float64(month-1)*29.5306 + float64(day-1)
}

// hinduToJD is a mean sidereal-year approximation.
func hinduToJD(year, month, day int) float64 {
	return 588465.5 + float64(year)*365.25875 + float64(month-1)*30.438 + float64(day-1)
}

func copticToJD(year, month, day int) float64 {
	return 1824665.5 +
		float64(365*(year-1)) +
		float64(floorDiv(year-1, 4)) +
		float64(30*(month-1)) +
		float64(day) - 1
}

// ethiopianToJD is the Coptic formula with an 8-year era shift.
func ethiopianToJD(year, month, day int) float64 {
	return copticToJD(year-8, month, day)
}

func frenchRevToJD(year, month, day int) float64 {
	return 2375839.5 +
		float64((year-1)*365) +
		float64(floorDiv(year-1, 4)) +
		float64((month-1)*30) +
		float64(day-1)
}

// mayaToJD takes a Haab-style (year, month, day) count from the GMT correlation.
func mayaToJD(year, month, day int) float64 {
	return 584283.5 + float64(year)*365 + float64(month)*20 + float64(day)
}
