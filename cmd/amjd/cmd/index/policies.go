package index

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/completion"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/reconciler"
)

func newPoliciesCommand(app application.Application) *cobra.Command {
	var overrides []string

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Print the field merge policy table",
		Long: `Policies lists the merge rules that differ from the default "once"
(first writer wins). A "*" source is a field-wide rule; named sources
override it. --policy shows the table with overrides applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := reconciler.DefaultPolicies()
			for _, spec := range overrides {
				var err error
				if p, err = applyPolicy(p, spec); err != nil {
					return err
				}
			}
			rules := p.Rules()
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: rules,
				Table: func(bool) table.Data {
					rows := make([][]string, len(rules))
					for i, r := range rules {
						rows[i] = []string{r.Source, r.Field, r.Policy}
					}
					return table.Data{Headers: []string{"Source", "Field", "Policy"}, Rows: rows}
				},
			})
		},
	}

	cmd.Flags().StringArrayVar(&overrides, "policy", nil, "override a merge policy: source:field=once|force|accumulate")
	_ = cmd.RegisterFlagCompletionFunc("policy", completion.Policies())
	return cmd
}
