// Package handlers implements the amjd API endpoints.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/server/cache"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
)

const indexCacheKey = "index"

// Handlers serves API requests from the application's data.
type Handlers struct {
	app    application.Application
	cache  *cache.Cache
	logger *zerolog.Logger
}

// New creates the handler set.
func New(app application.Application, c *cache.Cache, logger *zerolog.Logger) *Handlers {
	return &Handlers{app: app, cache: c, logger: logger}
}

// index returns the event index snapshot, loading it at most once per
// cache TTL.
func (h *Handlers) index(ctx context.Context) (*events.Index, error) {
	v, err := h.cache.Memo(indexCacheKey, func() (any, error) {
		return h.app.Index(ctx)
	})
	if err != nil {
		return nil, errors.WrapTimeout("load event index", 0, err)
	}
	return v.(*events.Index), nil
}

// floatParam reads an optional float query parameter.
func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewValidationError(name, raw, "must be a number")
	}
	return v, nil
}

// intParam reads an optional integer query parameter bounded to [lo, hi].
func intParam(r *http.Request, name string, fallback, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, errors.NewValidationError(name, raw, "must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return v, nil
}
