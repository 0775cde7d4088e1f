package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockapp "github.com/agentstation/amjd/internal/cmd/application"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/table"
)

func setup(t *testing.T) (*mockapp.Mock, string) {
	t.Helper()
	dir := t.TempDir()
	master := "key,label,JD_UT\n" +
		"SE_2024_04_08,Great American eclipse,2460409.2625\n" +
		"VE_0079_08_24,Vesuvius,1750028.5\n" +
		"SE_2017_08_21,,2457987.2681\n"
	sites := "site_name,lat_deg,lon_deg,elev_m\nDallas,32.78,-96.80,139\nWarsaw,52.23,21.01,100\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.MasterValidatedFile), []byte(master), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.SitesFile), []byte(sites), 0o600))
	return &mockapp.Mock{
		DataDirFunc:      func() string { return dir },
		OutputFormatFunc: func() string { return "json" },
	}, dir
}

func TestGrid(t *testing.T) {
	app, dir := setup(t)
	var out, errOut bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--type", "solar"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var cells []Cell
	require.NoError(t, json.Unmarshal(out.Bytes(), &cells))
	require.Len(t, cells, 4)
	assert.Equal(t, "SE_2017_08_21", cells[2].Key)
	assert.Equal(t, "SE_2017_08_21", cells[2].Label, "missing label falls back to the key")
	for _, c := range cells {
		assert.Empty(t, c.Error)
		require.NotNil(t, c.Result)
		assert.InDelta(t, c.JD, c.Result.JD, 1e-9)
	}
	assert.Contains(t, errOut.String(), "Wrote 4 cells")

	written, err := table.Read(filepath.Join(dir, constants.TopoSolarFile))
	require.NoError(t, err)
	assert.Equal(t, 4, written.Len())
}

func TestGrid_NoEclipses(t *testing.T) {
	app, _ := setup(t)
	cmd := NewCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--type", "lunar"})
	assert.True(t, errors.IsNotFound(cmd.ExecuteContext(context.Background())))
}

func TestGrid_BadType(t *testing.T) {
	app, _ := setup(t)
	cmd := NewCommand(app)
	cmd.SetArgs([]string{"--type", "annular"})
	assert.True(t, errors.IsValidationError(cmd.ExecuteContext(context.Background())))
}
