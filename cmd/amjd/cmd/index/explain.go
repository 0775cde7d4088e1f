package index

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/provenance"
)

func newExplainCommand(app application.Application) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "explain <provenance.yaml> [key]",
		Short: "Show which source wrote each field",
		Long: `Explain reads a provenance file written by "amjd index --provenance"
and lists, per event and field, every write attempt in run order: the
offered value, its source, the merge policy and whether it was applied.
The value in force at the end of the run is marked with →.`,
		Example: `  amjd index explain provenance.yaml
  amjd index explain provenance.yaml SE_2024_04_08 --fields label,topo_*`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := provenance.Load(args[0])
			if err != nil {
				return err
			}
			if f == nil {
				return errors.NewNotFoundError("provenance file", args[0])
			}

			report := provenance.GenerateReport(f.Provenance)
			if len(args) == 2 {
				ev, ok := report.Events[args[1]]
				if !ok {
					return errors.NewNotFoundError("event", args[1])
				}
				report = &provenance.Report{Events: map[string]provenance.EventProvenance{ev.Key: ev}}
			}

			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: report,
				Table: func(bool) table.Data { return table.ProvenanceToData(report, fields) },
			})
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "only fields matching these glob patterns")
	return cmd
}
