// Package summary provides the portfolio summary command.
package summary

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/summary"
)

// NewCommand creates the summary command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		out    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:     "summary",
		GroupID: "pipeline",
		Short:   "Summarize every dataset in the data directory",
		Long: `Summary reads the validated master table, the masterlike raw table,
the processed volcano table, both topocentric visibility grids and the
GSFC tables from the data directory and reports dataset/metric/value
rows: row counts, status counts and maximum absolute deltas. Datasets
whose file is absent are reported as missing rather than failing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := summary.Summarize(cmd.Context(), app.DataDir(), summary.Inputs())
			if err != nil {
				return err
			}

			if !dryRun {
				if out == "" {
					out = filepath.Join(app.DataDir(), constants.PortfolioSummaryFile)
				}
				if err := summary.Write(out, ds); err != nil {
					return err
				}
			}

			if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: ds,
				Table: func(bool) table.Data { return table.SummaryToData(ds) },
			}); err != nil {
				return err
			}
			if !dryRun {
				alerts.New(cmd.ErrOrStderr()).Successf("Wrote %d datasets to %s", len(ds), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default AMJD_PORTFOLIO_SUMMARY.csv in the data directory)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the summary without writing it")
	return cmd
}
