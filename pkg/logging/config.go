package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/pkg/constants"
)

// Config selects level, format and destination of a logger.
type Config struct {
	Level   string // trace, debug, info, warn, error; "" means info
	Format  string // console, json or auto
	Output  string // stderr, stdout, discard or a file path
	NoColor bool
	Caller  bool // add file:line; always on at debug and below

	// Fields are attached to every entry.
	Fields map[string]string
}

// ParseLevel maps a level name to a zerolog level. Unknown names report
// false and yield info.
func ParseLevel(name string) (zerolog.Level, bool) {
	switch strings.ToLower(name) {
	case "":
		return zerolog.InfoLevel, true
	case "warning":
		return zerolog.WarnLevel, true
	case "off", "none":
		return zerolog.Disabled, true
	case "trace", "debug", "info", "warn", "error":
		l, _ := zerolog.ParseLevel(strings.ToLower(name))
		return l, true
	}
	return zerolog.InfoLevel, false
}

// NewLoggerFromConfig builds a logger and sets zerolog's global level to match.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	level, _ := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(cfg.writer()).Level(level).With().Timestamp()
	if cfg.Caller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = ctx.Str(k, v)
	}
	return ctx.Logger()
}

func (cfg *Config) writer() io.Writer {
	out, terminal := cfg.output()
	format := strings.ToLower(cfg.Format)
	console := format == "console" || format == "pretty"
	if format == "" || format == "auto" {
		console = terminal
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    cfg.NoColor || os.Getenv("NO_COLOR") != "",
	}
}

// output opens the destination and reports whether it is stderr on a terminal.
// An unwritable file path falls back to stderr.
func (cfg *Config) output() (io.Writer, bool) {
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		return os.Stderr, stderrIsTerminal()
	case "stdout":
		return os.Stdout, false
	case "discard", "none":
		return io.Discard, false
	}
	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr, stderrIsTerminal()
	}
	return f, false
}
