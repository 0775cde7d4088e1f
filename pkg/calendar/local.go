package calendar

import (
	"fmt"
	"math"
)

// LocalTime shifts a Julian Day by the site's longitude (east positive) and
// returns the local-mean-time Julian Day with the clock hour it falls on.
func LocalTime(jd, lonDeg float64) (jdLocal, hours float64) {
	jdLocal = jd + lonDeg/360
	frac := jdLocal - 0.5 - math.Floor(jdLocal-0.5)
	return jdLocal, frac * 24
}

// LocalDateString formats the local-mean-time Gregorian date and time as
// "YYYY-MM-DD HH:MM".
func LocalDateString(jd, lonDeg float64) string {
	jdLocal, _ := LocalTime(jd, lonDeg)
	c, _ := FromJD(jdLocal, Gregorian)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute)
}
