package ephemeris

import "math"

// Analytic is a Provider built on truncated series for the Sun and Moon.
// It needs no data files and is safe for concurrent use.
type Analytic struct{}

// NewAnalytic returns the analytic provider.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

var _ Provider = (*Analytic)(nil)

// State implements Provider.
func (a *Analytic) State(jd float64) (State, error) {
	t := centuries(jd)
	eps := obliquity(t)

	sun := sunBody(t, eps)
	moon := moonBody(t, eps)

	elong := separation(sun.RADeg, sun.DecDeg, moon.RADeg, moon.DecDeg)
	psi := rad(elong)
	phase := deg(math.Atan2(sun.DistanceKm*math.Sin(psi), moon.DistanceKm-sun.DistanceKm*math.Cos(psi)))

	return State{
		JD:            jd,
		Sun:           sun,
		Moon:          moon,
		ElongationDeg: elong,
		PhaseAngleDeg: phase,
		Illumination:  (1 + math.Cos(rad(phase))) / 2,
	}, nil
}

// Topocentric implements Provider.
func (a *Analytic) Topocentric(jd float64, site Site) (Topocentric, error) {
	st, err := a.State(jd)
	if err != nil {
		return Topocentric{}, err
	}
	lst := norm360(siderealTime(jd) + site.LonDeg)

	sunRA, sunDec, sunHz := observe(st.Sun, lst, site)
	moonRA, moonDec, moonHz := observe(st.Moon, lst, site)

	return Topocentric{
		Sun:           sunHz,
		Moon:          moonHz,
		SunRadiusDeg:  sunRadiusArcsec / 3600 * auKm / st.Sun.DistanceKm,
		MoonRadiusDeg: deg(math.Asin(moonRadiusKm / st.Moon.DistanceKm)),
		SeparationDeg: separation(sunRA, sunDec, moonRA, moonDec),
	}, nil
}

// obliquity is the true obliquity of the ecliptic in degrees.
func obliquity(t float64) float64 {
	omega := rad(125.04 - 1934.136*t)
	return 23.439291 - 0.0130042*t + 0.00256*math.Cos(omega)
}

func toEquatorial(lonDeg, latDeg, epsDeg float64) (raDeg, decDeg float64) {
	l, b, e := rad(lonDeg), rad(latDeg), rad(epsDeg)
	ra := math.Atan2(math.Sin(l)*math.Cos(e)-math.Tan(b)*math.Sin(e), math.Cos(l))
	dec := math.Asin(math.Sin(b)*math.Cos(e) + math.Cos(b)*math.Sin(e)*math.Sin(l))
	return norm360(deg(ra)), deg(dec)
}

// sunBody uses the geometric mean longitude plus equation of center.
func sunBody(t, eps float64) Body {
	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := rad(357.52911 + 35999.05029*t - 0.0001537*t*t)
	e := 0.016708634 - 0.000042037*t - 0.0000001267*t*t

	c := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(m) +
		(0.019993-0.000101*t)*math.Sin(2*m) +
		0.000289*math.Sin(3*m)
	trueLon := l0 + c
	v := m + rad(c)
	r := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(v))

	omega := rad(125.04 - 1934.136*t)
	lon := norm360(trueLon - 0.00569 - 0.00478*math.Sin(omega))

	ra, dec := toEquatorial(lon, 0, eps)
	return Body{RADeg: ra, DecDeg: dec, EclipticLonDeg: lon, DistanceKm: r * auKm}
}

// moonArgs are the fundamental lunar arguments in radians.
type moonArgs struct {
	lp, d, m, mp, f float64
}

func lunarArguments(t float64) moonArgs {
	t2, t3, t4 := t*t, t*t*t, t*t*t*t
	return moonArgs{
		lp: rad(norm360(218.3164477 + 481267.88123421*t - 0.0015786*t2 + t3/538841 - t4/65194000)),
		d:  rad(norm360(297.8501921 + 445267.1114034*t - 0.0018819*t2 + t3/545868 - t4/113065000)),
		m:  rad(norm360(357.5291092 + 35999.0502909*t - 0.0001536*t2 + t3/24490000)),
		mp: rad(norm360(134.9633964 + 477198.8675055*t + 0.0087414*t2 + t3/69699 - t4/14712000)),
		f:  rad(norm360(93.2720950 + 483202.0175233*t - 0.0036539*t2 - t3/3526000 + t4/863310000)),
	}
}

// moonBody sums the largest periodic terms of the lunar theory.
func moonBody(t, eps float64) Body {
	a := lunarArguments(t)
	d, m, mp, f := a.d, a.m, a.mp, a.f

	lon := deg(a.lp) +
		6.288774*math.Sin(mp) +
		1.274027*math.Sin(2*d-mp) +
		0.658314*math.Sin(2*d) +
		0.213618*math.Sin(2*mp) -
		0.185116*math.Sin(m) -
		0.114332*math.Sin(2*f) +
		0.058793*math.Sin(2*d-2*mp) +
		0.057066*math.Sin(2*d-m-mp) +
		0.053322*math.Sin(2*d+mp) +
		0.045758*math.Sin(2*d-m) -
		0.040923*math.Sin(m-mp) -
		0.034720*math.Sin(d) -
		0.030383*math.Sin(m+mp)

	lat := 5.128122*math.Sin(f) +
		0.280602*math.Sin(mp+f) +
		0.277693*math.Sin(mp-f) +
		0.173237*math.Sin(2*d-f) +
		0.055413*math.Sin(2*d-mp+f) +
		0.046271*math.Sin(2*d-mp-f)

	dist := 385000.56 -
		20905.355*math.Cos(mp) -
		3699.111*math.Cos(2*d-mp) -
		2955.968*math.Cos(2*d) -
		569.925*math.Cos(2*mp) +
		48.888*math.Cos(m) -
		3.149*math.Cos(2*f) +
		246.158*math.Cos(2*d-2*mp) -
		152.138*math.Cos(2*d-m-mp) -
		170.733*math.Cos(2*d+mp) -
		204.586*math.Cos(2*d-m) -
		129.620*math.Cos(m-mp) +
		108.743*math.Cos(d) +
		104.755*math.Cos(m+mp)

	lon = norm360(lon)
	ra, dec := toEquatorial(lon, lat, eps)
	return Body{RADeg: ra, DecDeg: dec, EclipticLonDeg: lon, EclipticLatDeg: lat, DistanceKm: dist}
}

// siderealTime is the mean sidereal time at Greenwich in degrees.
func siderealTime(jd float64) float64 {
	t := centuries(jd)
	return norm360(280.46061837 + 360.98564736629*(jd-j2000) + 0.000387933*t*t - t*t*t/38710000)
}

// observe applies diurnal parallax and converts to horizontal coordinates.
// It returns the topocentric right ascension and declination alongside.
func observe(b Body, lstDeg float64, site Site) (raDeg, decDeg float64, hz Horizontal) {
	phi := rad(site.LatDeg)
	u := math.Atan(polarRatio * math.Tan(phi))
	h := site.ElevM / (earthRadiusKm * 1000)
	rhoSin := polarRatio*math.Sin(u) + h*math.Sin(phi)
	rhoCos := math.Cos(u) + h*math.Cos(phi)

	sinPi := earthRadiusKm / b.DistanceKm
	ha := rad(lstDeg - b.RADeg)
	dec := rad(b.DecDeg)

	den := math.Cos(dec) - rhoCos*sinPi*math.Cos(ha)
	dRA := math.Atan2(-rhoCos*sinPi*math.Sin(ha), den)
	topoDec := math.Atan2((math.Sin(dec)-rhoSin*sinPi)*math.Cos(dRA), den)
	topoHA := ha - dRA

	alt := math.Asin(math.Sin(phi)*math.Sin(topoDec) + math.Cos(phi)*math.Cos(topoDec)*math.Cos(topoHA))
	az := math.Atan2(math.Sin(topoHA), math.Cos(topoHA)*math.Sin(phi)-math.Tan(topoDec)*math.Cos(phi))

	return norm360(b.RADeg + deg(dRA)), deg(topoDec), Horizontal{
		AltDeg: deg(alt),
		AzDeg:  norm360(deg(az) + 180),
	}
}
