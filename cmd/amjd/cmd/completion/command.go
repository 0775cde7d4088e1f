// Package completion provides the shell completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/internal/cmd/completion"
	"github.com/agentstation/amjd/pkg/errors"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script",
		Long: `To load completions:

Bash:

  $ source <(amjd completion bash)

  # To load completions for each session, execute once:
  $ amjd completion bash > /etc/bash_completion.d/amjd

Zsh:

  $ amjd completion zsh > "${fpath[1]}/_amjd"

Fish:

  $ amjd completion fish > ~/.config/fish/completions/amjd.fish

PowerShell:

  PS> amjd completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completion.Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return errors.NewValidationError("shell", args[0], "unsupported shell")
		},
	}
}
