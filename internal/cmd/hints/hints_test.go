package hints

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/pkg/errors"
)

func commands() (*cobra.Command, *cobra.Command, *cobra.Command) {
	root := &cobra.Command{Use: "amjd"}
	index := &cobra.Command{Use: "index", Run: func(*cobra.Command, []string) {}}
	index.Flags().String("provenance", "", "")
	show := &cobra.Command{Use: "show", Run: func(*cobra.Command, []string) {}}
	index.AddCommand(show)
	root.AddCommand(index)
	return root, index, show
}

func TestFromCommand(t *testing.T) {
	_, index, show := commands()

	require.NoError(t, index.Flags().Set("provenance", "prov.yaml"))
	ctx := FromCommand(index, nil, nil)
	assert.Equal(t, "index", ctx.Command)
	assert.Empty(t, ctx.Subcommand)
	assert.True(t, ctx.Succeeded)
	assert.Equal(t, "prov.yaml", ctx.Flags["provenance"])

	ctx = FromCommand(show, []string{"SE_2024_04_08"}, errors.New("boom"))
	assert.Equal(t, "index", ctx.Command)
	assert.Equal(t, "show", ctx.Subcommand)
	assert.False(t, ctx.Succeeded)
	assert.Equal(t, []string{"SE_2024_04_08"}, ctx.Args)
}

func TestPipelineHints(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want []string
	}{
		{"validate", Context{Command: "validate", Succeeded: true}, []string{"amjd index"}},
		{"validate dry run", Context{Command: "validate", Flags: map[string]string{"dry-run": "true"}, Succeeded: true}, nil},
		{"volcano", Context{Command: "volcano", Succeeded: true}, []string{"amjd index"}},
		{"index", Context{Command: "index", Succeeded: true}, []string{"amjd index show", "amjd serve"}},
		{"index with provenance", Context{Command: "index", Flags: map[string]string{"provenance": "p.yaml"}, Succeeded: true},
			[]string{"amjd index show", "amjd index explain p.yaml"}},
		{"show all", Context{Command: "index", Subcommand: "show", Succeeded: true}, []string{"amjd index show <key>"}},
		{"show one", Context{Command: "index", Subcommand: "show", Args: []string{"X"}, Succeeded: true}, nil},
		{"epoch", Context{Command: "epoch", Succeeded: true}, []string{"amjd epoch --rows --dry-run"}},
		{"epoch rows", Context{Command: "epoch", Flags: map[string]string{"rows": "true"}, Succeeded: true}, nil},
		{"failed", Context{Command: "validate"}, nil},
		{"convert", Context{Command: "convert", Succeeded: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, h := range pipelineHints(tt.ctx) {
				got = append(got, h.Command)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecoveryHints(t *testing.T) {
	ctx := Context{Command: "index", Subcommand: "runs", Err: errors.NewConfigError("sqlite_path", "no SQLite store configured", nil)}
	hs := recoveryHints(ctx)
	require.Len(t, hs, 2)
	assert.Contains(t, hs[0].Message, "sqlite_path")
	assert.Equal(t, "amjd index runs --verbose", hs[1].Command)

	ctx = Context{Command: "validate", Args: []string{"a"}, Err: fmt.Errorf("reading: %w", &errors.SourceMissingError{Source: "validated", Path: "x.csv"})}
	hs = recoveryHints(ctx)
	require.Len(t, hs, 2)
	assert.Contains(t, hs[0].Message, "--data-dir")
	assert.Equal(t, "amjd validate a --verbose", hs[1].Command)

	assert.Nil(t, recoveryHints(Context{Command: "validate", Succeeded: true}))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(func(Context) []*Hint { return []*Hint{New("extra")} })

	hs := r.Hints(Context{Command: "index", Succeeded: true})
	assert.Len(t, hs, 2)

	r.MaxHints = 0
	hs = r.Hints(Context{Command: "index", Succeeded: true})
	assert.Len(t, hs, 3)
	assert.Equal(t, "extra", hs[2].String())
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, []*Hint{NewCommand("Browse", "amjd index show"), New("plain")})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Browse: amjd index show")
	assert.Contains(t, lines[1], "plain")
}

func TestEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, Enabled(&buf, false))
	assert.False(t, Enabled(&buf, true))

	t.Setenv("CI", "true")
	assert.True(t, isCI())
}
