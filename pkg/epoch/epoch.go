// Package epoch maps Julian Day numbers onto the Anno Mundi (AM) linear day count.
//
// The model is a single constant offset: AM = JD - Offset. No precession,
// ΔT, or calendar corrections are applied.
package epoch

import (
	"math"
	"strconv"
	"strings"
)

// Offset is the Julian Day of AM day zero.
const Offset = 1_721_670.0

// MasterCorrection is the measured offset, in days, between the AM value computed
// from a recorded JD_UT and the AM_day_float column of the master tables. The
// validator adds it before comparing; it is not part of the epoch model itself.
const MasterCorrection = 3.5

// AMFromJD converts a Julian Day to an AM day value.
func AMFromJD(jd float64) float64 {
	return jd - Offset
}

// JDFromAM converts an AM day value to a Julian Day.
func JDFromAM(am float64) float64 {
	return am + Offset
}

// ParseAMYear extracts the leading AM year from a free-text label such as
// "1181 AM, May 28" or "−3 AM". The second return is false when the label
// has no "AM" marker or no year before it.
func ParseAMYear(full string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(full), "−", "-")
	i := strings.Index(s, "AM")
	if i < 0 {
		return 0, false
	}
	s = s[:i]
	s = strings.ReplaceAll(s, ",", "")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Pair is one recorded (JD, AM) observation.
type Pair struct {
	JD float64
	AM float64
}

// Comparison summarizes residuals JDFromAM(am) - jd. Mean is signed, so a
// systematic shift shows its direction; MaxAbs and RMS measure spread.
type Comparison struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	MaxAbs float64 `json:"max_abs" yaml:"max_abs"`
	RMS    float64 `json:"rms" yaml:"rms"`
}

// Compare computes the residual statistics of a set of recorded pairs.
// Pairs with NaN members are ignored.
func Compare(pairs []Pair) Comparison {
	var c Comparison
	var sum, sumSq float64
	for _, p := range pairs {
		if math.IsNaN(p.JD) || math.IsNaN(p.AM) {
			continue
		}
		d := JDFromAM(p.AM) - p.JD
		c.Count++
		sum += d
		sumSq += d * d
		c.MaxAbs = math.Max(c.MaxAbs, math.Abs(d))
	}
	if c.Count > 0 {
		n := float64(c.Count)
		c.Mean = sum / n
		c.RMS = math.Sqrt(sumSq / n)
	}
	return c
}
