// Package raw provides the raw-to-masterlike normalization command.
package raw

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/rawdata"
	pkgtable "github.com/agentstation/amjd/pkg/table"
)

// NewCommand creates the raw command.
func NewCommand(app application.Application) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "raw [raw.csv]",
		GroupID: "pipeline",
		Short:   "Normalize a raw observation table to the master layout",
		Long: `Raw computes each row's Julian Day from its calendar and Y/M/D/UT_time
columns, compares it with the recorded JD_UT and writes the masterlike
table the index command reads. Columns beyond the fixed layout are
carried through unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := filepath.Join(app.DataDir(), constants.RawDataFile)
			if len(args) == 1 {
				input = args[0]
			}

			t, err := pkgtable.Read(input)
			if err != nil {
				return err
			}
			res, err := rawdata.ProcessTable(cmd.Context(), t)
			if err != nil {
				return err
			}
			if out == "" {
				out = rawdata.OutputPath(input)
			}
			if err := rawdata.Write(out, res); err != nil {
				return err
			}

			if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: res,
				Table: func(bool) table.Data { return table.RawToData(res) },
			}); err != nil {
				return err
			}
			alerts.New(cmd.ErrOrStderr()).Successf("Wrote %d rows to %s (%d with errors)",
				len(res.Rows), out, res.Errors())
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default AMJD_RAW_DATA_MASTERLIKE.csv next to the input)")
	return cmd
}
