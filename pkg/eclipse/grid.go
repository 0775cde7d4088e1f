package eclipse

import (
	"context"
	"strconv"
	"strings"

	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/logging"
	"github.com/agentstation/amjd/pkg/table"
)

// Anchor is an eclipse instant taken from the validated master table.
type Anchor struct {
	Key   string
	Label string
	JD    float64
}

// matches reports whether an event key names an eclipse of this kind.
func (k Kind) matches(key string) bool {
	switch k {
	case Solar:
		return strings.HasPrefix(key, "SE_") || strings.Contains(key, "SolarEcl")
	case Lunar:
		return strings.HasPrefix(key, "LE_") || strings.Contains(key, "LunarEcl")
	}
	return false
}

// Anchors selects eclipses of the given kind from a master table. Rows
// without a JD_UT are skipped; a missing label falls back to the key.
func Anchors(t *table.Table, kind Kind) ([]Anchor, error) {
	if err := t.Require("master_validated", table.Col("key"), table.Col("JD_UT")); err != nil {
		return nil, err
	}
	var out []Anchor
	for _, row := range t.Rows {
		key := row.Get("key")
		if key == "" || !kind.matches(key) {
			continue
		}
		jd := row.Float("JD_UT")
		if jd == nil {
			continue
		}
		label := row.Get("label")
		if label == "" {
			label = key
		}
		out = append(out, Anchor{Key: key, Label: label, JD: *jd})
	}
	if len(out) == 0 {
		return nil, errors.NewNotFoundError(string(kind)+" eclipse", t.Path)
	}
	return out, nil
}

// Sites reads observer locations (site_name, lat_deg, lon_deg, optional elev_m).
func Sites(t *table.Table) ([]ephemeris.Site, error) {
	if err := t.Require("sites", table.Col("site_name"), table.Col("lat_deg"), table.Col("lon_deg")); err != nil {
		return nil, err
	}
	var out []ephemeris.Site
	for i, row := range t.Rows {
		lat, lon := row.Float("lat_deg"), row.Float("lon_deg")
		if lat == nil || lon == nil {
			return nil, errors.NewValidationError("sites", i+1, "lat_deg and lon_deg must be numeric")
		}
		site := ephemeris.Site{Name: row.Get("site_name"), LatDeg: *lat, LonDeg: *lon}
		if elev := row.Float("elev_m"); elev != nil {
			site.ElevM = *elev
		}
		out = append(out, site)
	}
	return out, nil
}

// Cell is one anchor × site evaluation. Err is set instead of Result when
// the evaluation failed.
type Cell struct {
	Anchor Anchor
	Site   ephemeris.Site
	Kind   Kind
	Result *Visibility
	Err    error
}

// BuildGrid evaluates every anchor at every site. A failing cell is recorded
// and the grid continues.
func BuildGrid(ctx context.Context, p ephemeris.Provider, kind Kind, anchors []Anchor, sites []ephemeris.Site) ([]Cell, error) {
	logger := logging.FromContext(ctx)
	cells := make([]Cell, 0, len(anchors)*len(sites))
	failed := 0

	for _, a := range anchors {
		if err := ctx.Err(); err != nil {
			return cells, err
		}
		for _, s := range sites {
			cell := Cell{Anchor: a, Site: s, Kind: kind}
			v, err := Check(p, kind, a.JD, s)
			if err != nil {
				cell.Err = err
				failed++
			} else {
				cell.Result = &v
			}
			cells = append(cells, cell)
		}
	}

	logger.Info().
		Str("eclipse_type", string(kind)).
		Int("anchors", len(anchors)).
		Int("sites", len(sites)).
		Int("cells", len(cells)).
		Int("errors", failed).
		Msg("Built eclipse visibility grid")
	return cells, nil
}

// GridHeader is the column order of visibility grid files.
var GridHeader = []string{
	"key", "label", "eclipse_type", "JD_UT",
	"site_name", "lat_deg", "lon_deg", "elev_m",
	"visible", "classification", "coverage_fraction",
	"sun_alt_deg", "sun_az_deg", "moon_alt_deg", "moon_az_deg",
	"illumination", "phase_angle_deg", "elongation_deg", "error",
}

// Record renders the cell in GridHeader order.
func (c Cell) Record() []string {
	rec := []string{
		c.Anchor.Key, c.Anchor.Label, string(c.Kind), ftoa(c.Anchor.JD),
		c.Site.Name, ftoa(c.Site.LatDeg), ftoa(c.Site.LonDeg), ftoa(c.Site.ElevM),
	}
	if c.Err != nil || c.Result == nil {
		msg := ""
		if c.Err != nil {
			msg = c.Err.Error()
		}
		return append(rec, "", "", "", "", "", "", "", "", "", "", msg)
	}
	v := c.Result
	return append(rec,
		table.FormatBool(v.Visible), v.Classification, ftoa(v.CoverageFraction),
		ftoa(v.Sun.AltDeg), ftoa(v.Sun.AzDeg), ftoa(v.Moon.AltDeg), ftoa(v.Moon.AzDeg),
		ftoa(v.Illumination), ftoa(v.PhaseAngleDeg), ftoa(v.ElongationDeg), "",
	)
}

// WriteGrid writes cells to path in GridHeader order.
func WriteGrid(path string, cells []Cell) error {
	rows := make([][]string, len(cells))
	for i, c := range cells {
		rows[i] = c.Record()
	}
	return table.Write(path, GridHeader, rows)
}

// GridFileName is the conventional output name, e.g. AMJD_TOPO_VISIBILITY_SOLAR.csv.
func GridFileName(kind Kind) string {
	return "AMJD_TOPO_VISIBILITY_" + strings.ToUpper(string(kind)) + ".csv"
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
