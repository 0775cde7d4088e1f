package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/internal/cmd/completion"
	"github.com/agentstation/amjd/internal/cmd/hints"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/pkg/logging"
)

// flags holds the persistent flag values. They are applied over the loaded
// configuration in setupCommand, so a --config reload does not lose them.
type flags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
	dataDir    string
}

// Execute runs the amjd CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	a.showHints(cmd, err)
	return err
}

// showHints prints next-step or recovery hints for the command that ran.
func (a *App) showHints(cmd *cobra.Command, err error) {
	if cmd == nil || !cmd.Runnable() {
		return
	}
	w := cmd.ErrOrStderr()
	if !hints.Enabled(w, a.config.Quiet) {
		return
	}
	hints.Display(w, hints.NewRegistry().Hints(hints.FromCommand(cmd, cmd.Flags().Args(), err)))
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:     "amjd",
		Short:   "AM/JD calendar conversion and event reconciliation",
		Version: a.version,
		Long: `amjd converts dates between historical calendars, Julian Day and the
AM (Anno Mundi) day count, validates event tables against those
conversions and reconciles the validated tables, volcanic eruptions, raw
observations and eclipse visibility grids into one event index.

Datasets are read from the data directory (default data/amjd).`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "pipeline", Title: "Pipeline Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (default is $HOME/.amjd.yaml or ./.amjd.yaml)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&f.format, "format", "o", "", "output format: table, wide, json, yaml")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&f.dataDir, "data-dir", "", "dataset directory (default data/amjd)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", completion.Formats())

	rootCmd.SetVersionTemplate("amjd {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, f *flags) error {
	if f.configFile != "" {
		config, err := LoadConfig(f.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}
	if _, err := output.ParseFormat(f.format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(f.verbose, f.quiet, f.noColor, f.format, f.logLevel, f.dataDir)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
