package handlers

import (
	"net/http"

	"github.com/agentstation/amjd/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "amjd-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET {prefix}/ready. The server is ready once an event
// index can be loaded.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	x, err := h.index(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Event index not available")
		response.ServiceUnavailable(w, "Event index not available")
		return
	}
	response.OK(w, map[string]any{
		"status":  "ready",
		"records": x.Len(),
		"cache":   map[string]any{"items": h.cache.ItemCount()},
	})
}
