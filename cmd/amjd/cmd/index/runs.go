package index

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/internal/store"
	"github.com/agentstation/amjd/pkg/errors"
)

func newRunsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List reconciliation runs saved in the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := app.Store()
			if err != nil {
				return err
			}
			if st == nil {
				return errors.NewConfigError("sqlite_path", "no SQLite store configured", nil)
			}
			runs, err := st.Runs(cmd.Context())
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: runs,
				Table: func(bool) table.Data { return runsToData(runs) },
			})
		},
	}
}

func runsToData(runs []store.Run) table.Data {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{r.ID, r.SavedAt.Local().Format(time.DateTime), strconv.Itoa(r.Records)}
	}
	return table.Data{
		Headers:         []string{"Run", "Saved", "Records"},
		Rows:            rows,
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignLeft, table.AlignRight},
	}
}
