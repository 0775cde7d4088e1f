package hints

import (
	"strings"

	"github.com/agentstation/amjd/pkg/errors"
)

// pipelineHints suggests the next step of the dataset pipeline.
func pipelineHints(ctx Context) []*Hint {
	if !ctx.Succeeded {
		return nil
	}

	switch ctx.Command {
	case "validate":
		if _, dry := ctx.Flags["dry-run"]; !dry {
			return []*Hint{NewCommand("Reconcile the validated table with the other sources", "amjd index")}
		}
	case "raw", "volcano", "grid":
		return []*Hint{NewCommand("Merge the new table into the event index", "amjd index")}
	case "index":
		switch ctx.Subcommand {
		case "":
			hints := []*Hint{NewCommand("Browse the reconciled events", "amjd index show")}
			if path, ok := ctx.Flags["provenance"]; ok {
				hints = append(hints, NewCommand("See which source wrote each field", "amjd index explain "+path))
			} else {
				hints = append(hints, NewCommand("Serve the index over HTTP", "amjd serve"))
			}
			return hints
		case "show":
			if len(ctx.Args) == 0 {
				return []*Hint{NewCommand("Show every column of one event", "amjd index show <key>")}
			}
		}
	case "summary":
		return []*Hint{New("Missing datasets are produced by amjd validate, raw, volcano and grid")}
	case "epoch":
		if _, listed := ctx.Flags["rows"]; !listed {
			return []*Hint{NewCommand("List the per-event residuals", "amjd epoch --rows --dry-run")}
		}
	}
	return nil
}

// recoveryHints suggests how to get past a failure.
func recoveryHints(ctx Context) []*Hint {
	if ctx.Succeeded || ctx.Err == nil {
		return nil
	}

	var hints []*Hint
	var cfgErr *errors.ConfigError
	switch {
	case errors.IsSourceMissing(ctx.Err):
		hints = append(hints, New("Check --data-dir (or AMJD_DATA_DIR) points at the dataset directory"))
	case errors.IsMissingColumns(ctx.Err):
		hints = append(hints, New("The table header lacks a required column; column names are case-sensitive"))
	case errors.IsUnsupportedSystem(ctx.Err):
		hints = append(hints, NewCommand("List the supported calendar systems", "amjd convert --help"))
	case errors.As(ctx.Err, &cfgErr) && cfgErr.Component == "sqlite_path":
		hints = append(hints, New("Set sqlite_path in .amjd.yaml or AMJD_SQLITE_PATH, or pass --sqlite to amjd index"))
	}

	cmdline := append([]string{"amjd", ctx.Command}, ctx.Args...)
	if ctx.Subcommand != "" {
		cmdline = append([]string{"amjd", ctx.Command, ctx.Subcommand}, ctx.Args...)
	}
	hints = append(hints, NewCommand("Run with verbose output for more details", strings.Join(cmdline, " ")+" --verbose"))
	return hints
}
