// Command amjd converts historical calendar dates to Julian Day and the AM
// day count, and reconciles the AMJD event tables into one index.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentstation/amjd/cmd/amjd/app"
	"github.com/agentstation/amjd/pkg/constants"
)

// Set by the release build with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	a, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = a.Execute(ctx, os.Args[1:])
	stop()

	// The store is closed even when a signal cancelled ctx.
	closeCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	if cerr := a.Shutdown(closeCtx); cerr != nil {
		a.Logger().Error().Err(cerr).Msg("Closing event store")
	}

	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	return 0
}
