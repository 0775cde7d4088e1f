package calendar

import (
	"fmt"
	"math"

	"github.com/agentstation/amjd/pkg/errors"
)

// Civil is a calendar date with time of day.
type Civil struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// DayFraction returns the time of day as a fraction of a day.
func (c Civil) DayFraction() float64 {
	return float64(c.Hour*3600+c.Minute*60+c.Second) / 86400
}

// Date formats the date with a signed astronomical year, e.g. "+1815-04-10".
func (c Civil) Date() string {
	return FormatDate(c.Year, c.Month, c.Day)
}

// Clock formats the time of day as HH:MM:SS.
func (c Civil) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// FormatDate renders a signed astronomical year date as "+YYYY-MM-DD".
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%+05d-%02d-%02d", year, month, day)
}

// FromJD is the inverse of ToJD for the Gregorian and Julian systems:
// FromJD(ToJD(s, y, m, d)) yields (y, m, d) at 00:00:00. Any fraction beyond
// the ToJD value is returned as time of day, rounded to whole seconds.
func FromJD(jd float64, system System) (Civil, error) {
	if !system.Reversible() {
		return Civil{}, errors.NewUnsupportedSystemError(string(system))
	}

	x := jd - 0.5
	jdn := int(math.Floor(x))
	secs := int(math.Round((x - float64(jdn)) * 86400))
	if secs >= 86400 {
		jdn++
		secs -= 86400
	}

	var c Civil
	if system == Gregorian {
		c.Year, c.Month, c.Day = gregorianFromJDN(jdn)
	} else {
		c.Year, c.Month, c.Day = julianFromJDN(jdn)
	}
	c.Hour = secs / 3600
	c.Minute = (secs % 3600) / 60
	c.Second = secs % 60
	return c, nil
}

func gregorianFromJDN(jdn int) (year, month, day int) {
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	return fromMarchDays(c, 100*b)
}

func julianFromJDN(jdn int) (year, month, day int) {
	return fromMarchDays(jdn+32082, 0)
}

// fromMarchDays splits a day count since the March-based epoch into a date.
func fromMarchDays(c, centuries int) (year, month, day int) {
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)
	day = e - floorDiv(153*m+2, 5) + 1
	month = m + 3 - 12*floorDiv(m, 10)
	year = centuries + d - 4800 + floorDiv(m, 10)
	return year, month, day
}
