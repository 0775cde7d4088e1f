package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/pkg/logging"
)

// NewLogger builds the CLI logger. The level comes from, in order:
// --log-level (or AMJD_LOG_LEVEL), then --quiet (warn), then --verbose
// (debug), then info.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:   level,
		Format:  config.LogFormat,
		Output:  config.LogOutput,
		NoColor: config.NoColor,
	})

	switch {
	case config.LogLevel != "" && level != config.LogLevel:
		logger.Warn().Str("requested", config.LogLevel).Str("using", level).Msg("Unknown log level")
	case config.LogLevel == "" && config.Verbose && config.Quiet:
		logger.Warn().Msg("Both --verbose and --quiet given, using --quiet")
	}
	return logger
}

func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		return validateLogLevel(config.LogLevel)
	case config.Quiet:
		return "warn"
	case config.Verbose:
		return "debug"
	default:
		return "info"
	}
}

// logLevels are the names --log-level accepts.
var logLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}

// validateLogLevel returns level when the CLI accepts it and "info" otherwise.
func validateLogLevel(level string) string {
	if !logLevels[level] {
		return "info"
	}
	return level
}
