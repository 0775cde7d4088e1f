package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/amjd/cmd/completion"
	"github.com/agentstation/amjd/cmd/amjd/cmd/convert"
	"github.com/agentstation/amjd/cmd/amjd/cmd/epoch"
	"github.com/agentstation/amjd/cmd/amjd/cmd/grid"
	"github.com/agentstation/amjd/cmd/amjd/cmd/index"
	"github.com/agentstation/amjd/cmd/amjd/cmd/raw"
	"github.com/agentstation/amjd/cmd/amjd/cmd/serve"
	"github.com/agentstation/amjd/cmd/amjd/cmd/summary"
	"github.com/agentstation/amjd/cmd/amjd/cmd/validate"
	"github.com/agentstation/amjd/cmd/amjd/cmd/version"
	"github.com/agentstation/amjd/cmd/amjd/cmd/volcano"
	"github.com/agentstation/amjd/internal/server"
)

// registerCommands adds all subcommands to the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(convert.NewCommand(a))
	rootCmd.AddCommand(index.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.serverConfig))

	// Pipeline commands
	rootCmd.AddCommand(validate.NewCommand(a))
	rootCmd.AddCommand(raw.NewCommand(a))
	rootCmd.AddCommand(volcano.NewCommand(a))
	rootCmd.AddCommand(grid.NewCommand(a))
	rootCmd.AddCommand(summary.NewCommand(a))
	rootCmd.AddCommand(epoch.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}

// serverConfig maps the loaded server settings onto server.Config.
func (a *App) serverConfig() server.Config {
	cfg := server.DefaultConfig()
	sc := a.config.Server
	if sc.Host != "" {
		cfg.Host = sc.Host
	}
	if sc.Port != 0 {
		cfg.Port = sc.Port
	}
	if sc.PathPrefix != "" {
		cfg.PathPrefix = sc.PathPrefix
	}
	if sc.CacheTTL > 0 {
		cfg.CacheTTL = sc.CacheTTL
	}
	if sc.RequestTimeout > 0 {
		cfg.RequestTimeout = sc.RequestTimeout
	}
	cfg.CORSOrigins = sc.CORSOrigins
	return cfg
}
