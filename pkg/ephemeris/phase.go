package ephemeris

import "math"

// Phase names, ordered through one lunation.
const (
	PhaseNew            = "new moon"
	PhaseWaxingCrescent = "waxing crescent"
	PhaseFirstQuarter   = "first quarter"
	PhaseFull           = "full moon"
	PhaseLastQuarter    = "last quarter"
	PhaseWaningCrescent = "waning crescent"
)

// LunationFraction is the Moon's position in its synodic cycle from mean
// elements: 0 at new moon, 0.5 at full, approaching 1 before the next new moon.
func LunationFraction(jd float64) float64 {
	a := lunarArguments(centuries(jd))
	d, m, mp := a.d, a.m, a.mp
	elong := deg(d) +
		6.289*math.Sin(mp) -
		2.100*math.Sin(m) +
		1.274*math.Sin(2*d-mp) +
		0.658*math.Sin(2*d) +
		0.214*math.Sin(2*mp) +
		0.110*math.Sin(d)
	return norm360(elong) / 360
}

// PhaseName names the lunar phase for a lunation fraction.
func PhaseName(fraction float64) string {
	switch {
	case fraction < 0.03:
		return PhaseNew
	case fraction < 0.25:
		return PhaseWaxingCrescent
	case fraction < 0.47:
		return PhaseFirstQuarter
	case fraction < 0.53:
		return PhaseFull
	case fraction < 0.75:
		return PhaseLastQuarter
	case fraction < 0.97:
		return PhaseWaningCrescent
	default:
		return PhaseNew
	}
}

// MoonPhase returns the phase name at jd.
func MoonPhase(jd float64) string {
	return PhaseName(LunationFraction(jd))
}
