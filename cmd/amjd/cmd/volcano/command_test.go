package volcano

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockapp "github.com/agentstation/amjd/internal/cmd/application"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/table"
	"github.com/agentstation/amjd/pkg/volcano"
)

func TestVolcano(t *testing.T) {
	dir := t.TempDir()
	body := strings.Join(volcano.RawColumns, ",") + "\n" +
		"VOLC_VESUVIUS_79,Vesuvius,211020,Italy,5,exact,79,CE,8,24,,julian,1750148.5,,,day,,GVP\n" +
		"VOLC_BAD,Nowhere,,,,,,,,,,gregorian,,,,,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.VolcanoRawFile), []byte(body), 0o600))
	out := filepath.Join(dir, "out", "processed.csv")
	app := &mockapp.Mock{DataDirFunc: func() string { return dir }}

	var stdout, stderr bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--out", out})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, stdout.String(), "VOLC_VESUVIUS_79")
	assert.Contains(t, stderr.String(), "Wrote 2 eruptions")
	assert.Contains(t, stderr.String(), "(1 with errors)")

	written, err := table.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 2, written.Len())
}
