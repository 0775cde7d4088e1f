// Package hints suggests the next amjd command after a command finishes,
// and recovery steps after it fails.
package hints

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/amjd/internal/cmd/emoji"
)

// Hint is one suggestion, optionally with a command to run.
type Hint struct {
	Message string
	Command string
}

// New creates a hint without a command.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// NewCommand creates a hint that suggests a command.
func NewCommand(message, command string) *Hint {
	return &Hint{Message: message, Command: command}
}

// String returns the hint as printed.
func (h *Hint) String() string {
	if h.Command == "" {
		return h.Message
	}
	return fmt.Sprintf("%s: %s", h.Message, h.Command)
}

// Context describes the command that just ran.
type Context struct {
	Command    string
	Subcommand string
	Args       []string
	Flags      map[string]string // flags the user set
	Succeeded  bool
	Err        error
}

// FromCommand builds a Context from a finished cobra command.
func FromCommand(cmd *cobra.Command, args []string, err error) Context {
	ctx := Context{
		Command:   cmd.Name(),
		Args:      args,
		Flags:     make(map[string]string),
		Succeeded: err == nil,
		Err:       err,
	}
	if p := cmd.Parent(); p != nil && p.Parent() != nil {
		ctx.Subcommand = cmd.Name()
		ctx.Command = p.Name()
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		ctx.Flags[f.Name] = f.Value.String()
	})
	return ctx
}

// Provider generates hints for a context.
type Provider func(Context) []*Hint

// Registry collects providers and caps how many hints are shown.
type Registry struct {
	providers []Provider
	MaxHints  int
}

// NewRegistry returns a registry with the amjd providers installed.
func NewRegistry() *Registry {
	return &Registry{
		providers: []Provider{pipelineHints, recoveryHints},
		MaxHints:  2,
	}
}

// Register adds a provider.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Hints generates hints for ctx in provider order.
func (r *Registry) Hints(ctx Context) []*Hint {
	var out []*Hint
	for _, p := range r.providers {
		out = append(out, p(ctx)...)
	}
	if r.MaxHints > 0 && len(out) > r.MaxHints {
		out = out[:r.MaxHints]
	}
	return out
}

// Enabled reports whether hints should be printed to w: only on an
// interactive terminal, outside CI, and when not asked to be quiet.
func Enabled(w io.Writer, quiet bool) bool {
	if quiet || isCI() {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Display prints hints to w, one per line.
func Display(w io.Writer, hints []*Hint) {
	for _, h := range hints {
		fmt.Fprintf(w, "%s %s\n", emoji.Info, h)
	}
}

func isCI() bool {
	for _, v := range []string{"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}
