package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/internal/cmd/table"
)

type point struct {
	Name    string  `json:"site_name"`
	Lat     float64 `json:"lat_deg"`
	private int
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestRenderTableView(t *testing.T) {
	var wideSeen bool
	v := View{
		Value: map[string]int{"rows": 2},
		Table: func(wide bool) table.Data {
			wideSeen = wide
			return table.Data{Headers: []string{"Key", "Status"}, Rows: [][]string{{"E1", "OK"}}}
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatWide, v))
	assert.True(t, wideSeen)
	assert.Contains(t, buf.String(), "E1")
	assert.Contains(t, buf.String(), "OK")

	buf.Reset()
	require.NoError(t, Render(&buf, FormatJSON, v))
	assert.JSONEq(t, `{"rows":2}`, buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, FormatYAML, v))
	assert.Equal(t, "rows: 2\n", buf.String())
}

func TestTableFormatterReflection(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	require.NoError(t, f.Format(&buf, []point{{Name: "Giza", Lat: 29.98}}))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "SITE NAME")
	assert.Contains(t, out, "GIZA")
	assert.NotContains(t, out, "PRIVATE")

	buf.Reset()
	require.NoError(t, f.Format(&buf, point{Name: "Ur", Lat: 30.96}))
	assert.Contains(t, strings.ToUpper(buf.String()), "LAT DEG")
	assert.Contains(t, buf.String(), "30.96")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, []int{1, 2}))
	assert.JSONEq(t, `[1,2]`, buf.String())
}
