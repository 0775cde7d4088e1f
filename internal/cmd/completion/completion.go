// Package completion provides shell completion values for amjd flags.
package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/pkg/calendar"
	"github.com/agentstation/amjd/pkg/eclipse"
	"github.com/agentstation/amjd/pkg/reconciler"
	"github.com/agentstation/amjd/pkg/sources"
)

// Shells supported by the completion command.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// Func is a cobra flag completion function.
type Func = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

// Fixed completes from a fixed list, filtered by the typed prefix.
func Fixed(values ...string) Func {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// Systems completes calendar system names.
func Systems() Func {
	systems := calendar.Systems()
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.String()
	}
	return Fixed(names...)
}

// EclipseTypes completes --type for the grid command.
func EclipseTypes() Func {
	return Fixed(string(eclipse.Solar), string(eclipse.Lunar))
}

// SourceIDs completes reconciliation source identifiers.
func SourceIDs() Func {
	ids := sources.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return Fixed(names...)
}

// Formats completes --format.
func Formats() Func {
	return Fixed(string(output.FormatTable), string(output.FormatWide), string(output.FormatJSON), string(output.FormatYAML))
}

// Policies completes "source:field=policy" one segment at a time.
func Policies() Func {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		src, rest, hasField := strings.Cut(toComplete, ":")
		if !hasField {
			ids, _ := SourceIDs()(nil, nil, src)
			for i := range ids {
				ids[i] += ":"
			}
			return ids, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
		}
		field, _, hasPolicy := strings.Cut(rest, "=")
		if !hasPolicy {
			return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
		}
		prefix := src + ":" + field + "="
		var out []string
		for _, p := range []reconciler.Policy{reconciler.Once, reconciler.Force, reconciler.Accumulate} {
			if v := prefix + p.String(); strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
