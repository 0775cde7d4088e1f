// Package index provides the event reconciliation command and the
// commands that inspect its results.
package index

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/alerts"
	"github.com/agentstation/amjd/internal/cmd/completion"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/internal/store"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/provenance"
	"github.com/agentstation/amjd/pkg/reconciler"
	"github.com/agentstation/amjd/pkg/sources"
)

// options holds the flags of a reconciliation run.
type options struct {
	out         string
	provenance  string
	sqlite      string
	only        []string
	policies    []string
	runID       string
	metricsFile string
}

// Summary is the structured output of a reconciliation run.
type Summary struct {
	RunID      string                                `json:"run_id"`
	Records    int                                   `json:"records"`
	Output     string                                `json:"output"`
	Store      string                                `json:"store,omitempty"`
	Provenance string                                `json:"provenance,omitempty"`
	Sources    map[sources.ID]reconciler.SourceStats `json:"sources"`
	Warnings   []string                              `json:"warnings,omitempty"`
}

// NewCommand creates the index command.
func NewCommand(app application.Application) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "index",
		GroupID: "pipeline",
		Short:   "Reconcile all sources into the event index",
		Long: `Index merges the validated master table, the GSFC eclipse tables,
processed volcanic eruptions, the raw masterlike table and the solar and
lunar visibility grids into one record per event key.

Passes run in that order. A scalar field keeps the first value written
unless its policy says otherwise; visibility counters accumulate. A
missing source file skips its pass with a warning; a source lacking its
required columns aborts the run.`,
		Example: `  amjd index
  amjd index --provenance data/amjd/provenance.yaml --sqlite amjd.db
  amjd index --only master_validated,volcano
  amjd index --policy gsfc_master:label=force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "index output path (default <data-dir>/AMJD_EVENT_INDEX.csv)")
	cmd.Flags().StringVar(&opts.provenance, "provenance", "", "write field provenance as YAML to this file")
	cmd.Flags().StringVar(&opts.sqlite, "sqlite", "", "also save the index to this SQLite database (default sqlite_path)")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "run only these source passes")
	cmd.Flags().StringArrayVar(&opts.policies, "policy", nil, "override a merge policy: source:field=once|force|accumulate")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "run identifier (default a random UUID)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	_ = cmd.RegisterFlagCompletionFunc("only", completion.SourceIDs())
	_ = cmd.RegisterFlagCompletionFunc("policy", completion.Policies())

	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newRunsCommand(app))
	cmd.AddCommand(newExplainCommand(app))
	cmd.AddCommand(newPoliciesCommand(app))

	return cmd
}

func run(cmd *cobra.Command, app application.Application, opts *options) error {
	ctx := cmd.Context()

	recOpts, err := reconcilerOptions(app, opts)
	if err != nil {
		return err
	}
	r, err := reconciler.New(recOpts...)
	if err != nil {
		return err
	}
	res, err := r.Reconcile(ctx, app.Sources())
	if err != nil {
		return err
	}

	sum := Summary{
		RunID:    res.RunID,
		Records:  res.Index.Len(),
		Output:   opts.out,
		Sources:  res.SourceStats,
		Warnings: res.Warnings,
	}
	if sum.Output == "" {
		sum.Output = app.IndexPath()
	}
	if err := events.WriteIndex(sum.Output, res.Index); err != nil {
		return err
	}

	st, path, closeStore, err := openStore(app, opts.sqlite)
	if err != nil {
		return err
	}
	defer closeStore()
	if st != nil {
		if err := st.SaveIndex(ctx, res.RunID, res.Index); err != nil {
			return err
		}
		sum.Store = path
	}

	if opts.provenance != "" {
		if err := provenance.Save(opts.provenance, &provenance.File{RunID: res.RunID, Provenance: res.Provenance}); err != nil {
			return err
		}
		sum.Provenance = opts.provenance
	}
	if opts.metricsFile != "" {
		if err := app.Metrics().WriteFile(opts.metricsFile); err != nil {
			return err
		}
	}

	if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
		Value: sum,
		Table: func(bool) table.Data { return table.ReconcileToData(res) },
	}); err != nil {
		return err
	}

	notices := alerts.New(cmd.ErrOrStderr())
	for _, w := range res.Warnings {
		notices.Warningf("%s", w)
	}
	notices.Successf("%s", res.Summary())
	notices.Successf("Wrote %s", sum.Output)
	if sum.Store != "" {
		notices.Successf("Saved run %s to %s", res.RunID, sum.Store)
	}
	return nil
}

func reconcilerOptions(app application.Application, opts *options) ([]reconciler.Option, error) {
	recOpts := []reconciler.Option{
		reconciler.WithProvenance(opts.provenance != ""),
		reconciler.WithObserver(app.Metrics()),
	}
	if opts.runID != "" {
		recOpts = append(recOpts, reconciler.WithRunID(opts.runID))
	}
	if len(opts.only) > 0 {
		ids := make([]sources.ID, len(opts.only))
		for i, s := range opts.only {
			ids[i] = sources.ID(strings.TrimSpace(s))
		}
		recOpts = append(recOpts, reconciler.WithOnly(ids...))
	}
	if len(opts.policies) > 0 {
		policies := reconciler.DefaultPolicies()
		for _, spec := range opts.policies {
			var err error
			if policies, err = applyPolicy(policies, spec); err != nil {
				return nil, err
			}
		}
		recOpts = append(recOpts, reconciler.WithPolicies(policies))
	}
	return recOpts, nil
}

// applyPolicy parses "source:field=policy" and adds it to p.
func applyPolicy(p reconciler.Policies, spec string) (reconciler.Policies, error) {
	target, name, ok := strings.Cut(spec, "=")
	src, field, ok2 := strings.Cut(target, ":")
	if !ok || !ok2 {
		return p, errors.NewValidationError("policy", spec, "expected source:field=policy")
	}

	id := sources.ID(strings.TrimSpace(src))
	if !id.IsValid() {
		return p, errors.NewValidationError("policy", spec, "unknown source "+string(id))
	}
	f := events.Field(strings.TrimSpace(field))
	known := false
	for _, c := range events.Columns {
		known = known || c == f
	}
	if !known || f == events.FieldKey {
		return p, errors.NewValidationError("policy", spec, "unknown field "+string(f))
	}
	policy, err := reconciler.ParsePolicy(name)
	if err != nil {
		return p, errors.WrapValidation("policy", err)
	}
	if policy.Allows(f) != nil {
		return p, errors.NewValidationError("policy", spec, "accumulate applies only to counter fields")
	}
	return p.With(id, f, policy), nil
}

// openStore returns the store named by the flag, or the configured one.
// The returned close func releases only a store opened here.
func openStore(app application.Application, flagPath string) (*store.Store, string, func(), error) {
	if flagPath != "" {
		st, err := store.Open(flagPath)
		if err != nil {
			return nil, "", nil, err
		}
		return st, flagPath, func() { _ = st.Close() }, nil
	}
	st, err := app.Store()
	if err != nil {
		return nil, "", nil, err
	}
	return st, app.SQLitePath(), func() {}, nil
}
