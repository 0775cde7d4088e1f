package convert

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockapp "github.com/agentstation/amjd/internal/cmd/application"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/instant"
)

func convert(t *testing.T, args ...string) (*instant.Info, error) {
	t.Helper()
	app := &mockapp.Mock{OutputFormatFunc: func() string { return "yaml" }}
	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}
	var info instant.Info
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &info))
	return &info, nil
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		args []string
		jd   float64
		am   float64
	}{
		{name: "gregorian default", args: []string{"2025-10-09"}, jd: 2460958.5, am: 739288.5},
		{name: "gregorian noon", args: []string{"2025-10-09", "--time", "12:00"}, jd: 2460959.0, am: 739289.0},
		{name: "julian", args: []string{"--system", "julian", "2025-09-26"}, jd: 2460958.5, am: 739288.5},
		{name: "from jd", args: []string{"--jd", "2460958.5"}, jd: 2460958.5, am: 739288.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := convert(t, tt.args...)
			require.NoError(t, err)
			assert.InDelta(t, tt.jd, info.Time.JD, 1e-9)
			assert.InDelta(t, tt.am, info.Time.AM, 1e-9)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	_, err := convert(t, "--jd", "2460958.5", "2025-10-09")
	assert.True(t, errors.IsValidationError(err))

	_, err = convert(t, "--system", "mayan", "2025-10-09")
	assert.Error(t, err)
}
