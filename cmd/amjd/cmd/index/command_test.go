package index

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/cmd/application"
	mockapp "github.com/agentstation/amjd/internal/cmd/application"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/reconciler"
	"github.com/agentstation/amjd/pkg/sources"
)

const master = `key,label,calendar,civil_date,JD_UT,status_JD,AM_from_code_adjusted,delta_AM_days,status_AM
SE_2024_04_08,Total solar eclipse,gregorian,2024-04-08,2460408.5,OK,738738.5,0,OK
VE_0079_08_24,Vesuvius,julian,0079-08-24,1750028.5,OK,28358.5,0,OK
`

func newMock(t *testing.T, format string) (*mockapp.Mock, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.MasterValidatedFile), []byte(master), 0o600))
	return &mockapp.Mock{
		DataDirFunc:      func() string { return dir },
		OutputFormatFunc: func() string { return format },
	}, dir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestIndexRun(t *testing.T) {
	app, dir := newMock(t, "json")
	prov := filepath.Join(dir, "provenance.yaml")
	db := filepath.Join(dir, "events.db")
	metricsFile := filepath.Join(dir, "amjd.prom")

	out, stderr, err := execute(t, NewCommand(app),
		"--provenance", prov, "--sqlite", db, "--run-id", "run-1", "--metrics-file", metricsFile)
	require.NoError(t, err)

	var sum Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, "run-1", sum.RunID)
	assert.Equal(t, 2, sum.Records)
	assert.Equal(t, app.IndexPath(), sum.Output)
	assert.Equal(t, db, sum.Store)
	assert.Equal(t, prov, sum.Provenance)
	assert.False(t, sum.Sources[sources.MasterValidatedID].Missing)
	assert.True(t, sum.Sources[sources.VolcanoID].Missing)
	assert.NotEmpty(t, sum.Warnings)
	assert.Contains(t, stderr, "Saved run run-1")

	x, err := events.ReadIndex(app.IndexPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"SE_2024_04_08", "VE_0079_08_24"}, x.Keys())

	for _, path := range []string{prov, db, metricsFile} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "amjd_")
}

func TestIndexRun_Only(t *testing.T) {
	app, _ := newMock(t, "json")

	out, _, err := execute(t, NewCommand(app), "--only", "volcano")
	require.NoError(t, err)

	var sum Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 0, sum.Records)

	_, _, err = execute(t, NewCommand(app), "--only", "bogus")
	assert.Error(t, err)
}

func TestIndexRun_TableOutput(t *testing.T) {
	app, _ := newMock(t, "table")

	out, _, err := execute(t, NewCommand(app))
	require.NoError(t, err)
	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "MASTER_VALIDATED")
	assert.Contains(t, out, "missing")
}

func TestApplyPolicy(t *testing.T) {
	p := reconciler.DefaultPolicies()

	got, err := applyPolicy(p, "gsfc_master:label=force")
	require.NoError(t, err)
	assert.Equal(t, reconciler.Force, got.For(sources.GSFCMasterID, events.FieldLabel))
	assert.Equal(t, reconciler.Once, got.For(sources.MasterValidatedID, events.FieldLabel))

	for _, bad := range []string{
		"label=force",
		"gsfc_master:label",
		"nowhere:label=force",
		"gsfc_master:colour=force",
		"gsfc_master:key=force",
		"gsfc_master:label=sometimes",
		"master_validated:label=accumulate",
		"volcano:jd_ut=accumulate",
	} {
		_, err := applyPolicy(p, bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}

	got, err = applyPolicy(p, "topo_solar:topo_solar_sites=accumulate")
	require.NoError(t, err)
	assert.Equal(t, reconciler.Accumulate, got.For(sources.TopoSolarID, events.FieldTopoSolarSites))
}

func TestShow(t *testing.T) {
	app, _ := newMock(t, "json")
	_, _, err := execute(t, NewCommand(app))
	require.NoError(t, err)
	app.IndexFunc = func(context.Context) (*events.Index, error) {
		return events.ReadIndex(app.IndexPath())
	}

	out, _, err := execute(t, NewCommand(app), "show", "--limit", "1")
	require.NoError(t, err)
	var recs []events.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "SE_2024_04_08", recs[0].Key)

	out, _, err = execute(t, NewCommand(app), "show", "VE_0079_08_24")
	require.NoError(t, err)
	var rec events.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.NotNil(t, rec.Label)
	assert.Equal(t, "Vesuvius", *rec.Label)

	out, _, err = execute(t, NewCommand(app), "show", "--key", "VE_*", "--to-jd", "1800000")
	require.NoError(t, err)
	recs = nil
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "VE_0079_08_24", recs[0].Key)

	_, _, err = execute(t, NewCommand(app), "show", "--from-jd", "2", "--to-jd", "1")
	assert.True(t, errors.IsValidationError(err))

	_, _, err = execute(t, NewCommand(app), "show", "NOPE")
	assert.True(t, errors.IsNotFound(err))
}

func TestRuns(t *testing.T) {
	app, dir := newMock(t, "json")
	db := filepath.Join(dir, "events.db")
	_, _, err := execute(t, NewCommand(app), "--sqlite", db, "--run-id", "run-a")
	require.NoError(t, err)

	_, _, err = execute(t, NewCommand(app), "runs")
	assert.Error(t, err, "runs without a configured store")

	app.SQLitePathFunc = func() string { return db }
	out, _, err := execute(t, NewCommand(app), "runs")
	require.NoError(t, err)
	assert.Contains(t, out, `"run-a"`)
	assert.Contains(t, out, `"records": 2`)
}

func TestExplain(t *testing.T) {
	app, dir := newMock(t, "yaml")
	prov := filepath.Join(dir, "provenance.yaml")
	_, _, err := execute(t, NewCommand(app), "--provenance", prov)
	require.NoError(t, err)

	out, _, err := execute(t, NewCommand(app), "explain", prov, "VE_0079_08_24")
	require.NoError(t, err)
	assert.Contains(t, out, "VE_0079_08_24")
	assert.NotContains(t, out, "SE_2024_04_08")

	_, _, err = execute(t, NewCommand(app), "explain", prov, "NOPE")
	assert.True(t, errors.IsNotFound(err))
	_, _, err = execute(t, NewCommand(app), "explain", filepath.Join(dir, "absent.yaml"))
	assert.True(t, errors.IsNotFound(err))
}

func TestExplainTableFields(t *testing.T) {
	app, dir := newMock(t, "table")
	prov := filepath.Join(dir, "provenance.yaml")
	_, _, err := execute(t, NewCommand(app), "--provenance", prov)
	require.NoError(t, err)

	out, _, err := execute(t, NewCommand(app), "explain", prov, "--fields", "label")
	require.NoError(t, err)
	assert.Contains(t, out, "Vesuvius")
	assert.NotContains(t, out, "julian")
}

func TestPolicies(t *testing.T) {
	var app application.Application = &mockapp.Mock{OutputFormatFunc: func() string { return "json" }}

	out, _, err := execute(t, NewCommand(app), "policies", "--policy", "gsfc_master:label=force")
	require.NoError(t, err)

	var rules []reconciler.Rule
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	assert.Contains(t, rules, reconciler.Rule{Source: "*", Field: "jd_ut_source", Policy: "force"})
	assert.Contains(t, rules, reconciler.Rule{Source: "gsfc_master", Field: "label", Policy: "force"})
	assert.Equal(t, "*", rules[0].Source)
}
