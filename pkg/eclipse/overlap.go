// Package eclipse quantifies how much of one disk another covers and decides
// whether a recorded eclipse was observable from a site.
package eclipse

import "math"

// OverlapFraction returns the fraction of disk A's area covered by disk B,
// in [0, 1]. Radii and center separation are angles in degrees.
func OverlapFraction(radiusA, radiusB, separation float64) float64 {
	ra := radians(radiusA)
	rb := radians(radiusB)
	d := radians(separation)

	switch {
	case d >= ra+rb:
		return 0
	case rb >= ra && d <= math.Abs(rb-ra):
		return 1
	case ra >= rb && d <= math.Abs(ra-rb):
		return (rb * rb) / (ra * ra)
	case d <= 0:
		small := math.Min(ra, rb)
		return math.Min(1, (small*small)/(ra*ra))
	}

	alpha := 2 * math.Acos(clampUnit((d*d+ra*ra-rb*rb)/(2*d*ra)))
	beta := 2 * math.Acos(clampUnit((d*d+rb*rb-ra*ra)/(2*d*rb)))
	lens := 0.5*ra*ra*(alpha-math.Sin(alpha)) + 0.5*rb*rb*(beta-math.Sin(beta))

	return clamp01(lens / (math.Pi * ra * ra))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// clampUnit keeps acos arguments in its domain against rounding.
func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
