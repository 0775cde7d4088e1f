// Package alerts writes one-line status notices for CLI commands, kept
// apart from the command's formatted output so they never mix into JSON or
// YAML on stdout.
package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/amjd/internal/cmd/emoji"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue, such as a skipped source.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the status symbol printed before the message.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return emoji.Error
	case LevelWarning:
		return emoji.Warning
	case LevelSuccess:
		return emoji.Success
	default:
		return emoji.Info
	}
}

// color returns the ANSI color code for the level.
func (l Level) color() string {
	switch l {
	case LevelError:
		return "\033[31m"
	case LevelWarning:
		return "\033[33m"
	case LevelSuccess:
		return "\033[32m"
	default:
		return "\033[36m"
	}
}

const reset = "\033[0m"

// Writer prints alerts to a stream, usually the command's stderr.
type Writer struct {
	w     io.Writer
	color bool
}

// New returns a Writer for w. Icons are colored when w is a terminal and
// NO_COLOR is unset.
func New(w io.Writer) *Writer {
	return &Writer{w: w, color: isTerminal(w) && os.Getenv("NO_COLOR") == ""}
}

// Write prints one alert line.
func (aw *Writer) Write(level Level, msg string) {
	icon := level.Icon()
	if aw.color {
		icon = level.color() + icon + reset
	}
	fmt.Fprintf(aw.w, "%s %s\n", icon, msg)
}

// Successf prints a success alert.
func (aw *Writer) Successf(format string, args ...any) {
	aw.Write(LevelSuccess, fmt.Sprintf(format, args...))
}

// Warningf prints a warning alert.
func (aw *Writer) Warningf(format string, args ...any) {
	aw.Write(LevelWarning, fmt.Sprintf(format, args...))
}

// Infof prints an informational alert.
func (aw *Writer) Infof(format string, args ...any) {
	aw.Write(LevelInfo, fmt.Sprintf(format, args...))
}

// Errorf prints an error alert.
func (aw *Writer) Errorf(format string, args ...any) {
	aw.Write(LevelError, fmt.Sprintf(format, args...))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
