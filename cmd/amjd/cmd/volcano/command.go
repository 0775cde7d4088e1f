// Package volcano provides the eruption dating command.
package volcano

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/constants"
	pkgtable "github.com/agentstation/amjd/pkg/table"
	"github.com/agentstation/amjd/pkg/volcano"
)

// NewCommand creates the volcano command.
func NewCommand(app application.Application) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "volcano [raw.csv]",
		GroupID: "pipeline",
		Short:   "Date volcanic eruptions on the JD axis",
		Long: `Volcano converts each eruption's year/month/day (BCE years become
astronomical years) in its stated calendar to a Julian Day and compares
it with the catalogue JD. Eruptions without a year but with a jd_min/jd_max
range are dated at the range midpoint.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := filepath.Join(app.DataDir(), constants.VolcanoRawFile)
			if len(args) == 1 {
				input = args[0]
			}

			t, err := pkgtable.Read(input)
			if err != nil {
				return err
			}
			res, err := volcano.ProcessTable(cmd.Context(), t)
			if err != nil {
				return err
			}
			if out == "" {
				out = volcano.OutputPath(input)
			}
			if err := volcano.Write(out, res); err != nil {
				return err
			}

			if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: res,
				Table: func(bool) table.Data { return table.VolcanoToData(res) },
			}); err != nil {
				return err
			}
			alerts.New(cmd.ErrOrStderr()).Successf("Wrote %d eruptions to %s (%d with errors)",
				len(res.Rows), out, res.Errors())
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default AMJD_VOLCANO_PROCESSED.csv next to the input)")
	return cmd
}
