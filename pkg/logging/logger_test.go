package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warning message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-42")
	ctx = logging.WithSource(ctx, "gsfc_master")
	ctx = logging.WithEvent(ctx, "SE_2017_08_21")

	logging.FromContext(ctx).Info().Msg("integrated row")

	testLogger.AssertContains(t, `"run_id":"run-42"`)
	testLogger.AssertContains(t, `"source":"gsfc_master"`)
	testLogger.AssertContains(t, `"event_key":"SE_2017_08_21"`)
	testLogger.AssertContains(t, "integrated row")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestRequestID(t *testing.T) {
	ctx := logging.WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", logging.RequestID(ctx))
	assert.Equal(t, "", logging.RequestID(context.Background()))
}

func TestConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		config *logging.Config
		check  func(t *testing.T, output string)
	}{
		{
			name:   "debug level",
			config: &logging.Config{Level: "debug", Format: "json"},
			check: func(t *testing.T, output string) {
				assert.Contains(t, output, `"level":"debug"`)
			},
		},
		{
			name:   "error level only",
			config: &logging.Config{Level: "error", Format: "json"},
			check: func(t *testing.T, output string) {
				assert.NotContains(t, output, `"level":"info"`)
				assert.Contains(t, output, `"level":"error"`)
			},
		},
		{
			name:   "default fields",
			config: &logging.Config{Level: "info", Format: "json", Fields: map[string]string{"component": "validator"}},
			check: func(t *testing.T, output string) {
				assert.Contains(t, output, `"component":"validator"`)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(tc.config).Output(buf)

			logger.Debug().Msg("debug")
			logger.Info().Msg("info")
			logger.Error().Msg("error")

			tc.check(t, buf.String())
		})
	}
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Info().Msg("message 1")
	tl.Logger.Error().Msg("message 2")

	tl.AssertContains(t, "message 1")
	tl.AssertNotContains(t, "message 3")
	assert.Equal(t, 2, tl.Count())
	assert.True(t, strings.HasPrefix(tl.Lines()[0], "{"))

	entries := tl.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "message 2", entries[1]["message"])

	tl.Clear()
	assert.Equal(t, 0, tl.Count())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		want  zerolog.Level
		known bool
	}{
		{"", zerolog.InfoLevel, true},
		{"DEBUG", zerolog.DebugLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"fatal", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, known := logging.ParseLevel(tt.name)
		assert.Equal(t, tt.want, got, tt.name)
		assert.Equal(t, tt.known, known, tt.name)
	}
}

func TestDiscardOutput(t *testing.T) {
	logger := logging.NewLoggerFromConfig(&logging.Config{Level: "warn", Output: "discard"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
