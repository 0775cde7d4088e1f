// Package epoch provides the AM/JD epoch report command.
package epoch

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/epoch"
	pkgtable "github.com/agentstation/amjd/pkg/table"
)

// Summary is the structured output of the epoch command.
type Summary struct {
	Input  string            `json:"input"`
	Output string            `json:"output,omitempty"`
	Rows   int               `json:"rows"`
	Stats  epoch.Comparison  `json:"stats"`
	Report []epoch.ReportRow `json:"report,omitempty"`
}

// NewCommand creates the epoch command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		out    string
		dryRun bool
		rows   bool
	)

	cmd := &cobra.Command{
		Use:     "epoch [master.csv]",
		GroupID: "pipeline",
		Short:   "Compare recorded AM days with reference Julian Days",
		Long: `Epoch maps every row's AM value back to a Julian Day and compares it
with the row's JD_UT, alongside the Moon's phase at that JD. Rows with an
AM_day_float column contribute to the residual statistics (signed mean,
maximum absolute and RMS delta in days); rows without one are listed as
round trips of JD_UT.

The report is written to AMJD_EPOCH_REPORT.csv in the data directory.`,
		Example: `  amjd epoch
  amjd epoch --rows --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := filepath.Join(app.DataDir(), constants.MasterFile)
			if len(args) == 1 {
				input = args[0]
			}

			tbl, err := pkgtable.Read(input)
			if err != nil {
				return err
			}
			report, err := epoch.BuildReport(tbl)
			if err != nil {
				return err
			}

			sum := Summary{Input: input, Rows: len(report.Rows), Stats: report.Stats}
			if rows {
				sum.Report = report.Rows
			}
			if !dryRun {
				if out == "" {
					out = filepath.Join(app.DataDir(), constants.EpochReportFile)
				}
				if err := epoch.WriteReport(out, report); err != nil {
					return err
				}
				sum.Output = out
			}

			err = output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: sum,
				Table: func(wide bool) table.Data { return table.EpochToData(report, rows || wide) },
			})
			if err != nil {
				return err
			}
			if sum.Output != "" {
				alerts.New(cmd.ErrOrStderr()).Successf("Wrote %d rows to %s", sum.Rows, sum.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default AMJD_EPOCH_REPORT.csv in the data directory)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the report without writing it")
	cmd.Flags().BoolVar(&rows, "rows", false, "list every row instead of the statistics")
	return cmd
}
