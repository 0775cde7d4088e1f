package eclipse

import (
	"fmt"
	"strings"

	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/errors"
)

// Kind is the eclipse type.
type Kind string

// Eclipse kinds.
const (
	Solar Kind = "solar"
	Lunar Kind = "lunar"
)

// ParseKind accepts "solar" or "lunar" in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Solar, Lunar:
		return k, nil
	}
	return "", errors.NewValidationError("eclipse_type", s, "must be solar or lunar")
}

// Classifications. An empty classification means no eclipse.
const (
	Central  = "central"
	Partial  = "partial"
	Possible = "possible"
)

// Heuristic limits on the geocentric geometry.
const (
	solarMaxIllumination = 0.4
	solarMaxElongation   = 2.0
	centralMaxElongation = 0.5
	lunarMinIllumination = 0.9
	lunarMinElongation   = 150.0
)

// Visibility is the outcome of checking one eclipse instant at one site.
type Visibility struct {
	JD                 float64              `json:"jd"`
	Kind               Kind                 `json:"type"`
	Visible            bool                 `json:"visible"`
	Classification     string               `json:"classification,omitempty"`
	CoverageFraction   float64              `json:"coverage_fraction"`
	Sun                ephemeris.Horizontal `json:"sun"`
	Moon               ephemeris.Horizontal `json:"moon"`
	Illumination       float64              `json:"illumination"`
	PhaseAngleDeg      float64              `json:"phase_angle_deg"`
	ElongationDeg      float64              `json:"elongation_deg"`
	SunEclipticLonDeg  float64              `json:"sun_ecliptic_lon_deg"`
	MoonEclipticLonDeg float64              `json:"moon_ecliptic_lon_deg"`
}

// CoveragePercent is the covered share of the solar disk in percent.
func (v Visibility) CoveragePercent() float64 {
	return v.CoverageFraction * 100
}

// ClassifySolar decides from geocentric geometry whether a solar eclipse is
// happening anywhere: the Moon must be nearly new and within 2° of the Sun.
func ClassifySolar(st ephemeris.State) string {
	if st.Illumination > solarMaxIllumination || st.ElongationDeg > solarMaxElongation {
		return ""
	}
	if st.ElongationDeg < centralMaxElongation {
		return Central
	}
	return Partial
}

// Check evaluates the eclipse of the given kind at jd for a site.
func Check(p ephemeris.Provider, kind Kind, jd float64, site ephemeris.Site) (Visibility, error) {
	switch kind {
	case Solar:
		return SolarVisibility(p, jd, site)
	case Lunar:
		return LunarVisibility(p, jd, site)
	}
	return Visibility{}, fmt.Errorf("unknown eclipse kind %q", kind)
}

// SolarVisibility reports whether a solar eclipse at jd is observable from site.
// Both bodies must be above the horizon and the local coverage positive.
func SolarVisibility(p ephemeris.Provider, jd float64, site ephemeris.Site) (Visibility, error) {
	st, topo, err := observe(p, jd, site)
	if err != nil {
		return Visibility{}, err
	}

	v := newVisibility(Solar, st, topo)
	v.Classification = ClassifySolar(st)

	up := topo.Sun.AltDeg > 0 && topo.Moon.AltDeg > 0
	if up && v.Classification != "" {
		v.CoverageFraction = OverlapFraction(topo.SunRadiusDeg, topo.MoonRadiusDeg, topo.SeparationDeg)
	}
	v.Visible = up && v.Classification != "" && v.CoverageFraction > 0
	return v, nil
}

// LunarVisibility reports whether a lunar eclipse at jd is observable from
// site: the Moon must be nearly full, opposite the Sun and above the horizon.
// Partial and total eclipses are not told apart.
func LunarVisibility(p ephemeris.Provider, jd float64, site ephemeris.Site) (Visibility, error) {
	st, topo, err := observe(p, jd, site)
	if err != nil {
		return Visibility{}, err
	}

	v := newVisibility(Lunar, st, topo)
	v.Visible = st.Illumination > lunarMinIllumination &&
		st.ElongationDeg > lunarMinElongation &&
		topo.Moon.AltDeg > 0
	if v.Visible {
		v.Classification = Possible
	}
	return v, nil
}

func observe(p ephemeris.Provider, jd float64, site ephemeris.Site) (ephemeris.State, ephemeris.Topocentric, error) {
	st, err := p.State(jd)
	if err != nil {
		return ephemeris.State{}, ephemeris.Topocentric{}, err
	}
	topo, err := p.Topocentric(jd, site)
	if err != nil {
		return ephemeris.State{}, ephemeris.Topocentric{}, err
	}
	return st, topo, nil
}

func newVisibility(kind Kind, st ephemeris.State, topo ephemeris.Topocentric) Visibility {
	return Visibility{
		JD:                 st.JD,
		Kind:               kind,
		Sun:                topo.Sun,
		Moon:               topo.Moon,
		Illumination:       st.Illumination,
		PhaseAngleDeg:      st.PhaseAngleDeg,
		ElongationDeg:      st.ElongationDeg,
		SunEclipticLonDeg:  st.Sun.EclipticLonDeg,
		MoonEclipticLonDeg: st.Moon.EclipticLonDeg,
	}
}
