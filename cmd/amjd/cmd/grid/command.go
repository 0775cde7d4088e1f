// Package grid provides the topocentric eclipse visibility grid command.
package grid

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/completion"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/eclipse"
	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/logging"
	pkgtable "github.com/agentstation/amjd/pkg/table"
)

// Cell is one eclipse/site evaluation as rendered by -o json or yaml.
type Cell struct {
	Key    string              `json:"key"`
	Label  string              `json:"label"`
	JD     float64             `json:"jd"`
	Site   ephemeris.Site      `json:"site"`
	Result *eclipse.Visibility `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func toCells(cells []eclipse.Cell) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell{Key: c.Anchor.Key, Label: c.Anchor.Label, JD: c.Anchor.JD, Site: c.Site, Result: c.Result}
		if c.Err != nil {
			out[i].Error = c.Err.Error()
		}
	}
	return out
}

type options struct {
	kind   string
	master string
	sites  string
	out    string
}

// NewCommand creates the grid command.
func NewCommand(app application.Application) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "grid",
		GroupID: "pipeline",
		Short:   "Build an eclipse visibility grid over observer sites",
		Long: `Grid takes every solar or lunar eclipse in the validated master table
and evaluates it at each observer site: body altitudes, the Sun/Moon
separation and the visible fraction. Solar cells are classified as
partial, annular or total from the apparent radii.`,
		Example: `  amjd grid --type solar
  amjd grid --type lunar --sites my_sites.csv -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "type", "solar", "eclipse type: solar or lunar")
	cmd.Flags().StringVar(&opts.master, "master", "", "validated master table (default in the data directory)")
	cmd.Flags().StringVar(&opts.sites, "sites", "", "observer site table (default AMJD_SITES.csv)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output path (default AMJD_TOPO_VISIBILITY_<TYPE>.csv in the data directory)")
	_ = cmd.RegisterFlagCompletionFunc("type", completion.EclipseTypes())
	return cmd
}

func run(cmd *cobra.Command, app application.Application, opts *options) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	kind, err := eclipse.ParseKind(opts.kind)
	if err != nil {
		return err
	}

	master := opts.master
	if master == "" {
		master = filepath.Join(app.DataDir(), constants.MasterValidatedFile)
	}
	sitesPath := opts.sites
	if sitesPath == "" {
		sitesPath = app.SitesPath()
	}
	out := opts.out
	if out == "" {
		out = filepath.Join(app.DataDir(), eclipse.GridFileName(kind))
	}

	mt, err := pkgtable.Read(master)
	if err != nil {
		return err
	}
	anchors, err := eclipse.Anchors(mt, kind)
	if err != nil {
		return err
	}
	st, err := pkgtable.Read(sitesPath)
	if err != nil {
		return err
	}
	sites, err := eclipse.Sites(st)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("type", string(kind)).
		Int("eclipses", len(anchors)).
		Int("sites", len(sites)).
		Msg("Building visibility grid")

	cells, err := eclipse.BuildGrid(ctx, app.Ephemeris(), kind, anchors, sites)
	if err != nil {
		return err
	}
	if err := eclipse.WriteGrid(out, cells); err != nil {
		return err
	}

	if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
		Value: toCells(cells),
		Table: func(bool) table.Data { return table.GridToData(cells) },
	}); err != nil {
		return err
	}
	alerts.New(cmd.ErrOrStderr()).Successf("Wrote %d cells to %s", len(cells), out)
	return nil
}
