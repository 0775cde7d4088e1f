// Package validate provides the master table validation command.
package validate

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/status"
	"github.com/agentstation/amjd/pkg/validator"
)

// Summary is the structured output of a validation run.
type Summary struct {
	Input   string             `json:"input"`
	Output  string             `json:"output,omitempty"`
	Rows    int                `json:"rows"`
	Errors  int                `json:"errors"`
	JD      status.Counts      `json:"status_jd"`
	AM      status.Counts      `json:"status_am"`
	Results []validator.Result `json:"results,omitempty"`
}

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		out         string
		dryRun      bool
		rows        bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:     "validate [master.csv]",
		GroupID: "pipeline",
		Short:   "Check a master table's JD and AM columns",
		Long: `Validate recomputes each row's Julian Day from its calendar date and its
AM day from the AM_full label, and classifies both against the recorded
values as OK, WARN, FAIL or NA. A row that cannot be evaluated records
an ERROR status in that half only.

The result is written next to the input with a _validated suffix, where
the index command picks it up.`,
		Example: `  amjd validate
  amjd validate data/amjd/AMJD_VALIDACJA_MASTER_AM.csv -o wide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := filepath.Join(app.DataDir(), constants.MasterFile)
			if len(args) == 1 {
				input = args[0]
			}

			report, err := validator.ValidateFile(cmd.Context(), input)
			if err != nil {
				return err
			}
			app.Metrics().Validation("jd", report.JDCounts)
			app.Metrics().Validation("am", report.AMCounts)

			sum := Summary{
				Input:  input,
				Rows:   len(report.Results),
				Errors: report.Errors(),
				JD:     report.JDCounts,
				AM:     report.AMCounts,
			}
			if rows {
				sum.Results = report.Results
			}
			if !dryRun {
				if out == "" {
					out = validator.OutputPath(input)
				}
				if err := validator.Write(out, report); err != nil {
					return err
				}
				sum.Output = out
			}
			if metricsFile != "" {
				if err := app.Metrics().WriteFile(metricsFile); err != nil {
					return err
				}
			}

			err = output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: sum,
				Table: func(wide bool) table.Data {
					if rows || wide {
						return table.ValidationToData(report, wide)
					}
					return table.StatusCounts([]string{"jd", "am"}, []status.Counts{report.JDCounts, report.AMCounts})
				},
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

	cmd.Flags().StringVar(&out, "out", "", "output path (default <input>_validated.csv)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without writing the output table")
	cmd.Flags().BoolVar(&rows, "rows", false, "list every row instead of the status counts")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	return cmd
}
