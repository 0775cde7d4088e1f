package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request_id"}
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithRequestID records an HTTP request id and tags the context logger with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return tag(context.WithValue(ctx, requestIDKey, id), "request_id", id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRunID tags every log line of a pipeline run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return tag(ctx, "run_id", runID)
}

// WithSource tags log lines with the dataset source being read.
func WithSource(ctx context.Context, source string) context.Context {
	return tag(ctx, "source", source)
}

// WithEvent tags log lines with an event key.
func WithEvent(ctx context.Context, key string) context.Context {
	return tag(ctx, "event_key", key)
}

func tag(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
