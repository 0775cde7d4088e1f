package instant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/errors"
)

func TestConvertGregorian(t *testing.T) {
	info, err := Convert(ephemeris.NewAnalytic(), Request{System: "Gregorian", Date: "2025-10-09", Lon: 19.9})
	require.NoError(t, err)

	assert.Equal(t, 2460958.5, info.Time.JD)
	assert.Equal(t, 739288.5, info.Time.AM)
	assert.Equal(t, "+2025-10-09 00:00:00", info.Time.Gregorian)
	assert.Equal(t, "gregorian", info.Input.System)
	require.NotNil(t, info.Input.Year)
	assert.Equal(t, 2025, *info.Input.Year)
	assert.NotEmpty(t, info.Moon.PhaseName)
	assert.GreaterOrEqual(t, info.Moon.Illumination, 0.0)
	assert.LessOrEqual(t, info.Moon.Illumination, 1.0)
}

func TestConvertTimeOfDay(t *testing.T) {
	info, err := Convert(ephemeris.NewAnalytic(), Request{System: "gregorian", Date: "2025-10-09", Time: "18:00"})
	require.NoError(t, err)
	assert.InDelta(t, 2460959.25, info.Time.JD, 1e-9)
	assert.InDelta(t, 18.0, info.Time.LocalHours, 1e-6)
}

func TestConvertTextDateAndAM(t *testing.T) {
	islamic, err := Convert(ephemeris.NewAnalytic(), Request{System: "islamic", Date: "14 rajab 1447"})
	require.NoError(t, err)
	assert.Equal(t, 7, *islamic.Input.Month)

	am, err := Convert(ephemeris.NewAnalytic(), Request{System: "am", Date: "739288.5"})
	require.NoError(t, err)
	assert.Equal(t, 2460958.5, am.Time.JD)
	assert.Nil(t, am.Input.Year)
}

func TestConvertErrors(t *testing.T) {
	p := ephemeris.NewAnalytic()

	_, err := Convert(p, Request{System: "aztec", Date: "2025-10-09"})
	assert.True(t, errors.IsUnsupportedSystem(err))

	_, err = Convert(p, Request{System: "gregorian"})
	assert.True(t, errors.IsValidationError(err))

	_, err = Convert(p, Request{System: "am", Date: "soon"})
	assert.True(t, errors.IsValidationError(err))

	_, err = Convert(p, Request{System: "gregorian", Date: "tomorrow"})
	assert.Error(t, err)
}

func TestFromJD(t *testing.T) {
	info, err := FromJD(ephemeris.NewAnalytic(), 2460958.5, 0)
	require.NoError(t, err)
	require.NotNil(t, info.Input.JD)
	assert.Equal(t, 2460958.5, *info.Input.JD)
	assert.Equal(t, "+2025-09-26 00:00:00", info.Time.Julian)
	assert.Equal(t, "2025-10-09 00:00", info.Time.LocalDateTime)
}
