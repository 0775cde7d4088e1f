package index

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/filter"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/errors"
)

func newShowCommand(app application.Application) *cobra.Command {
	var (
		f      filter.EventFilter
		fromJD float64
		toJD   float64
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "show [key]",
		Short: "List reconciled events or show one",
		Long: `Show reads the latest index (from the SQLite store when configured,
otherwise from the index CSV) and lists its events in key order, or
every column of a single event.`,
		Example: `  amjd index show --kind solar_eclipse
  amjd index show --key 'SE_20*' --status-am FAIL
  amjd index show --from-jd 2451544.5 --to-jd 2460000.5
  amjd index show SE_2024_04_08 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := app.Index(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				rec, ok := x.Get(args[0])
				if !ok {
					return errors.NewNotFoundError("event", args[0])
				}
				return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
					Value: rec,
					Table: func(bool) table.Data { return table.EventToData(rec) },
				})
			}

			if cmd.Flags().Changed("from-jd") {
				f.FromJD = &fromJD
			}
			if cmd.Flags().Changed("to-jd") {
				f.ToJD = &toJD
			}
			if err := f.Validate(); err != nil {
				return err
			}
			records := f.Apply(x.Records())
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: records,
				Table: func(wide bool) table.Data { return table.EventsToData(records, wide) },
			})
		},
	}

	cmd.Flags().StringVar(&f.Kind, "kind", "", "only events of this kind")
	cmd.Flags().StringVar(&f.Key, "key", "", "only keys matching this glob")
	cmd.Flags().StringVar(&f.StatusJD, "status-jd", "", "only events with this JD status")
	cmd.Flags().StringVar(&f.StatusAM, "status-am", "", "only events with this AM status")
	cmd.Flags().StringVar(&f.Source, "source", "", "only events whose JD came from this source")
	cmd.Flags().StringVar(&f.Search, "search", "", "only keys or labels containing this text")
	cmd.Flags().Float64Var(&fromJD, "from-jd", 0, "only events at or after this JD")
	cmd.Flags().Float64Var(&toJD, "to-jd", 0, "only events at or before this JD")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many events")
	return cmd
}
