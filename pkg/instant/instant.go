// Package instant describes a moment in time the way the API and CLI
// report it: Julian Day, AM day, local mean time, Moon phase and Sun–Moon
// geometry.
package instant

import (
	"strconv"
	"strings"

	"github.com/agentstation/amjd/pkg/calendar"
	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/epoch"
	"github.com/agentstation/amjd/pkg/errors"
)

// Input echoes the request that produced an Info.
type Input struct {
	System string   `json:"system,omitempty" yaml:"system,omitempty"`
	Date   string   `json:"date,omitempty" yaml:"date,omitempty"`
	Time   string   `json:"time,omitempty" yaml:"time,omitempty"`
	Year   *int     `json:"year,omitempty" yaml:"year,omitempty"`
	Month  *int     `json:"month,omitempty" yaml:"month,omitempty"`
	Day    *float64 `json:"day,omitempty" yaml:"day,omitempty"`
	JD     *float64 `json:"jd,omitempty" yaml:"jd,omitempty"`
	Lon    float64  `json:"lon" yaml:"lon"`
}

// Time is the converted instant.
type Time struct {
	JD            float64 `json:"jd" yaml:"jd"`
	AM            float64 `json:"am" yaml:"am"`
	Gregorian     string  `json:"gregorian" yaml:"gregorian"`
	Julian        string  `json:"julian" yaml:"julian"`
	LocalHours    float64 `json:"local_hours" yaml:"local_hours"`
	LocalDateTime string  `json:"local_datetime" yaml:"local_datetime"`
}

// Moon is the lunar phase at the instant.
type Moon struct {
	PhaseName     string  `json:"phase_name" yaml:"phase_name"`
	PhaseAngleDeg float64 `json:"phase_angle_deg" yaml:"phase_angle_deg"`
	Illumination  float64 `json:"illumination" yaml:"illumination"`
}

// Geometry is the geocentric Sun–Moon geometry.
type Geometry struct {
	ElongationDeg      float64 `json:"elongation_deg" yaml:"elongation_deg"`
	SunEclipticLonDeg  float64 `json:"sun_ecliptic_lon_deg" yaml:"sun_ecliptic_lon_deg"`
	MoonEclipticLonDeg float64 `json:"moon_ecliptic_lon_deg" yaml:"moon_ecliptic_lon_deg"`
}

// Info is the full description of an instant.
type Info struct {
	Input    Input    `json:"input" yaml:"input"`
	Time     Time     `json:"time" yaml:"time"`
	Moon     Moon     `json:"moon" yaml:"moon"`
	Geometry Geometry `json:"geometry" yaml:"geometry"`
}

// FromJD describes jd as seen from longitude lon (degrees, east positive).
func FromJD(p ephemeris.Provider, jd, lon float64) (*Info, error) {
	st, err := p.State(jd)
	if err != nil {
		return nil, err
	}
	greg, err := calendar.FromJD(jd, calendar.Gregorian)
	if err != nil {
		return nil, err
	}
	jul, err := calendar.FromJD(jd, calendar.Julian)
	if err != nil {
		return nil, err
	}
	_, hours := calendar.LocalTime(jd, lon)

	return &Info{
		Input: Input{JD: &jd, Lon: lon},
		Time: Time{
			JD:            jd,
			AM:            epoch.AMFromJD(jd),
			Gregorian:     greg.Date() + " " + greg.Clock(),
			Julian:        jul.Date() + " " + jul.Clock(),
			LocalHours:    hours,
			LocalDateTime: calendar.LocalDateString(jd, lon),
		},
		Moon: Moon{
			PhaseName:     ephemeris.MoonPhase(jd),
			PhaseAngleDeg: st.PhaseAngleDeg,
			Illumination:  st.Illumination,
		},
		Geometry: Geometry{
			ElongationDeg:      st.ElongationDeg,
			SunEclipticLonDeg:  st.Sun.EclipticLonDeg,
			MoonEclipticLonDeg: st.Moon.EclipticLonDeg,
		},
	}, nil
}

// Request is a calendar date to convert. Date is either a text date
// ("2025-10-09", "14 rajab 1447") or, for the AM system, an AM day number.
type Request struct {
	System string
	Date   string
	Time   string
	Lon    float64
}

// Convert parses and converts a calendar date, then describes the result.
// The time of day is added after conversion because ToJD keeps whole days.
func Convert(p ephemeris.Provider, req Request) (*Info, error) {
	system, err := calendar.ParseSystem(req.System)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, errors.NewValidationError("date", req.Date, "date is required")
	}

	var year, month int
	var day float64
	if system == calendar.AM {
		day, err = strconv.ParseFloat(strings.TrimSpace(req.Date), 64)
		if err != nil {
			return nil, errors.NewValidationError("date", req.Date, "AM dates are day numbers")
		}
	} else {
		year, month, day, err = calendar.ParseTextDate(system, req.Date)
		if err != nil {
			return nil, err
		}
	}

	frac, err := calendar.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, err
	}
	jd, err := calendar.ToJD(system, year, month, day)
	if err != nil {
		return nil, err
	}
	if system != calendar.AM {
		jd += frac
	}

	info, err := FromJD(p, jd, req.Lon)
	if err != nil {
		return nil, err
	}
	info.Input = Input{System: string(system), Date: req.Date, Time: req.Time, Lon: req.Lon}
	if system != calendar.AM {
		info.Input.Year, info.Input.Month = &year, &month
	}
	info.Input.Day = &day
	return info, nil
}
