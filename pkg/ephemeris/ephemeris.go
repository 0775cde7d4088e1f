// Package ephemeris provides low-precision Sun and Moon positions for eclipse
// visibility checks.
//
// Times are Julian Days treated as UT; no ΔT correction is applied. Positions
// are good to roughly 0.01° for the Sun and 0.1° for the Moon, enough to
// decide whether a recorded eclipse was above a site's horizon and to estimate
// local disk coverage.
package ephemeris

import "math"

// Site is an observer location.
type Site struct {
	Name   string  `json:"name" yaml:"name"`
	LatDeg float64 `json:"lat_deg" yaml:"lat_deg"`
	LonDeg float64 `json:"lon_deg" yaml:"lon_deg"` // east positive
	ElevM  float64 `json:"elev_m" yaml:"elev_m"`
}

// Body is the apparent geocentric position of the Sun or Moon.
type Body struct {
	RADeg          float64 `json:"ra_deg"`
	DecDeg         float64 `json:"dec_deg"`
	EclipticLonDeg float64 `json:"ecliptic_lon_deg"`
	EclipticLatDeg float64 `json:"ecliptic_lat_deg"`
	DistanceKm     float64 `json:"distance_km"`
}

// State is the geocentric Sun–Moon geometry at an instant.
type State struct {
	JD    float64 `json:"jd"`
	Sun   Body    `json:"sun"`
	Moon  Body    `json:"moon"`
	// ElongationDeg is the angular Sun–Moon separation seen from Earth's center.
	ElongationDeg float64 `json:"elongation_deg"`
	// PhaseAngleDeg is the Sun–Moon–Earth angle: 180 at new moon, 0 at full.
	PhaseAngleDeg float64 `json:"phase_angle_deg"`
	// Illumination is the illuminated fraction of the lunar disk.
	Illumination float64 `json:"illumination"`
}

// Horizontal is an altitude/azimuth pair. Azimuth is measured from north through east.
type Horizontal struct {
	AltDeg float64 `json:"alt_deg"`
	AzDeg  float64 `json:"az_deg"`
}

// Topocentric is the Sun–Moon geometry seen from a site.
type Topocentric struct {
	Sun           Horizontal `json:"sun"`
	Moon          Horizontal `json:"moon"`
	SunRadiusDeg  float64    `json:"sun_radius_deg"`
	MoonRadiusDeg float64    `json:"moon_radius_deg"`
	SeparationDeg float64    `json:"separation_deg"`
}

// Provider computes Sun and Moon geometry.
type Provider interface {
	// State returns the geocentric geometry at jd.
	State(jd float64) (State, error)
	// Topocentric returns the geometry seen from site at jd.
	Topocentric(jd float64, site Site) (Topocentric, error)
}

const (
	j2000         = 2451545.0
	julianCentury = 36525.0
	auKm          = 149597870.7
	earthRadiusKm = 6378.14
	moonRadiusKm  = 1737.4
	// sunRadiusArcsec is the solar semi-diameter at 1 AU.
	sunRadiusArcsec = 959.63
	// flattening term b/a of the reference ellipsoid
	polarRatio = 0.99664719
)

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(r float64) float64   { return r * 180 / math.Pi }

// norm360 wraps an angle into [0, 360).
func norm360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// centuries returns Julian centuries since J2000.
func centuries(jd float64) float64 {
	return (jd - j2000) / julianCentury
}

// separation is the great-circle angle between two equatorial positions.
func separation(ra1, dec1, ra2, dec2 float64) float64 {
	d1, d2 := rad(dec1), rad(dec2)
	sdd := math.Sin((d2 - d1) / 2)
	sda := math.Sin(rad(ra2-ra1) / 2)
	h := sdd*sdd + math.Cos(d1)*math.Cos(d2)*sda*sda
	return deg(2 * math.Asin(math.Min(1, math.Sqrt(h))))
}
