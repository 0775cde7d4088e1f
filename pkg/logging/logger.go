// Package logging provides structured logging for the amjd pipelines using zerolog.
// Console output is used when stderr is a terminal; JSON lines otherwise, so the
// batch jobs can be piped into log collectors unchanged.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("source", "volcano").Int("rows", 42).Msg("Integrated source")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	ctx = logging.WithSource(ctx, "gsfc_master")
//	logging.FromContext(ctx).Warn().Msg("Source file missing, skipping")
package logging

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu            sync.RWMutex
	defaultLogger = fromEnvironment()
)

// fromEnvironment builds the logger used before the CLI has loaded its
// configuration. AMJD_LOG_LEVEL and AMJD_LOG_FORMAT are honored.
func fromEnvironment() *zerolog.Logger {
	level := os.Getenv("AMJD_LOG_LEVEL")
	if level == "" && os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	logger := NewLoggerFromConfig(&Config{
		Level:  level,
		Format: os.Getenv("AMJD_LOG_FORMAT"),
	})
	return &logger
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	mu.Lock()
	defaultLogger = &logger
	log.Logger = logger
	mu.Unlock()
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return Default().Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return Default().Warn()
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
