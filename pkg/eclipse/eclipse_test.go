package eclipse

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/table"
)

func TestOverlapFraction(t *testing.T) {
	tests := []struct {
		name      string
		ra, rb, d float64
		want      float64
		tolerance float64
	}{
		{"disjoint", 1, 1, 3, 0, 0},
		{"touching", 1, 1, 2, 0, 1e-9},
		{"engulfed by larger B", 1, 2, 0.5, 1, 0},
		{"B inside A", 2, 1, 0.5, 0.25, 1e-12},
		{"concentric equal", 1, 1, 0, 1, 0},
		{"half offset", 1, 1, 1, 0.391002218, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapFraction(tt.ra, tt.rb, tt.d)
			assert.InDelta(t, tt.want, got, tt.tolerance)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestOverlapFractionMonotone(t *testing.T) {
	prev := 1.0
	for d := 0.0; d <= 0.6; d += 0.01 {
		got := OverlapFraction(0.2666, 0.2725, d)
		assert.LessOrEqual(t, got, prev+1e-12, "d=%v", d)
		prev = got
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Solar ")
	require.NoError(t, err)
	assert.Equal(t, Solar, k)

	_, err = ParseKind("annular")
	assert.Error(t, err)
}

func TestClassifySolar(t *testing.T) {
	assert.Equal(t, Central, ClassifySolar(ephemeris.State{Illumination: 0, ElongationDeg: 0.2}))
	assert.Equal(t, Partial, ClassifySolar(ephemeris.State{Illumination: 0.01, ElongationDeg: 1.2}))
	assert.Empty(t, ClassifySolar(ephemeris.State{Illumination: 0.01, ElongationDeg: 5}))
	assert.Empty(t, ClassifySolar(ephemeris.State{Illumination: 0.5, ElongationDeg: 0.1}))
}

// 2017-08-21 total eclipse near greatest eclipse.
const (
	solarJD = 2457987.2674
	lunarJD = 2459891.958
)

var hopkinsville = ephemeris.Site{Name: "Hopkinsville", LatDeg: 36.97, LonDeg: -87.67, ElevM: 170}

func TestSolarVisibility(t *testing.T) {
	p := ephemeris.NewAnalytic()

	v, err := SolarVisibility(p, solarJD, hopkinsville)
	require.NoError(t, err)
	assert.True(t, v.Visible)
	assert.Contains(t, []string{Central, Partial}, v.Classification)
	assert.Greater(t, v.CoverageFraction, 0.5)
	assert.Greater(t, v.Sun.AltDeg, 0.0)

	perth := ephemeris.Site{Name: "Perth", LatDeg: -31.95, LonDeg: 115.86}
	v, err = SolarVisibility(p, solarJD, perth)
	require.NoError(t, err)
	assert.False(t, v.Visible)
	assert.Zero(t, v.CoverageFraction)
}

func TestLunarVisibility(t *testing.T) {
	p := ephemeris.NewAnalytic()

	v, err := Check(p, Lunar, lunarJD, ephemeris.Site{Name: "Honolulu", LatDeg: 21.31, LonDeg: -157.86})
	require.NoError(t, err)
	assert.True(t, v.Visible)
	assert.Equal(t, Possible, v.Classification)
	assert.Greater(t, v.Illumination, 0.9)

	// a new moon is never a lunar eclipse
	v, err = Check(p, Lunar, solarJD, hopkinsville)
	require.NoError(t, err)
	assert.False(t, v.Visible)
	assert.Empty(t, v.Classification)
}

type failingProvider struct{ ephemeris.Provider }

func (failingProvider) State(float64) (ephemeris.State, error) {
	return ephemeris.State{}, errors.New("ephemeris unavailable")
}

func masterTable(t *testing.T) *table.Table {
	t.Helper()
	csv := "key,label,JD_UT\n" +
		"SE_2017,,2457987.2674\n" +
		"LE_2022,Blood moon,2459891.958\n" +
		"Ev_SolarEcl_X,Old,\n" +
		"Flood,,1000\n"
	tbl, err := table.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func TestAnchors(t *testing.T) {
	tbl := masterTable(t)

	solar, err := Anchors(tbl, Solar)
	require.NoError(t, err)
	require.Len(t, solar, 1)
	assert.Equal(t, Anchor{Key: "SE_2017", Label: "SE_2017", JD: solarJD}, solar[0])

	lunar, err := Anchors(tbl, Lunar)
	require.NoError(t, err)
	require.Len(t, lunar, 1)
	assert.Equal(t, "Blood moon", lunar[0].Label)

	empty, err := table.Parse(strings.NewReader("key,JD_UT\nFlood,1\n"))
	require.NoError(t, err)
	_, err = Anchors(empty, Solar)
	assert.Error(t, err)

	noJD, err := table.Parse(strings.NewReader("key,label\nSE_1,x\n"))
	require.NoError(t, err)
	_, err = Anchors(noJD, Solar)
	assert.Error(t, err)
}

func TestSites(t *testing.T) {
	tbl, err := table.Parse(strings.NewReader("site_name,lat_deg,lon_deg,elev_m\nA,10,20,\nB,-5,30,100\n"))
	require.NoError(t, err)

	sites, err := Sites(tbl)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Zero(t, sites[0].ElevM)
	assert.Equal(t, 100.0, sites[1].ElevM)

	bad, err := table.Parse(strings.NewReader("site_name,lat_deg,lon_deg\nA,north,20\n"))
	require.NoError(t, err)
	_, err = Sites(bad)
	assert.Error(t, err)
}

func TestBuildGridAndWrite(t *testing.T) {
	anchors := []Anchor{{Key: "SE_2017", Label: "SE_2017", JD: solarJD}}
	sites := []ephemeris.Site{hopkinsville, {Name: "Perth", LatDeg: -31.95, LonDeg: 115.86}}

	cells, err := BuildGrid(context.Background(), ephemeris.NewAnalytic(), Solar, anchors, sites)
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.True(t, cells[0].Result.Visible)
	assert.False(t, cells[1].Result.Visible)

	failed, err := BuildGrid(context.Background(), failingProvider{}, Solar, anchors, sites[:1])
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Nil(t, failed[0].Result)
	rec := failed[0].Record()
	assert.Len(t, rec, len(GridHeader))
	assert.Equal(t, "ephemeris unavailable", rec[len(rec)-1])
	assert.Empty(t, rec[8])

	path := filepath.Join(t.TempDir(), GridFileName(Solar))
	require.NoError(t, WriteGrid(path, append(cells, failed...)))

	back, err := table.Read(path)
	require.NoError(t, err)
	assert.Equal(t, GridHeader, back.Header)
	require.Equal(t, 3, back.Len())
	assert.Equal(t, "True", back.Rows[0].Get("visible"))
	assert.NotEmpty(t, back.Rows[0].Get("classification"))
	assert.Equal(t, "ephemeris unavailable", back.Rows[2].Get("error"))
}

func TestBuildGridCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildGrid(ctx, ephemeris.NewAnalytic(), Solar, []Anchor{{Key: "SE_1", JD: solarJD}}, []ephemeris.Site{hopkinsville})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridFileName(t *testing.T) {
	assert.Equal(t, "AMJD_TOPO_VISIBILITY_LUNAR.csv", GridFileName(Lunar))
}
