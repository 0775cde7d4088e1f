package handlers

import (
	"net/http"
	"strings"

	"github.com/agentstation/amjd/internal/cmd/filter"
	"github.com/agentstation/amjd/internal/server/response"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
)

// HandleListEvents handles GET {prefix}/events with optional kind, key
// (glob), status_jd, status_am, source, from_jd, to_jd, q and limit
// parameters. Filters are case-insensitive; records come back sorted by key.
func (h *Handlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 50, 1, 500)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	x, err := h.index(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	f, err := eventFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	recs := f.Apply(x.Records())
	items := recs[:min(limit, len(recs))]
	if items == nil {
		items = []*events.Record{}
	}

	response.OK(w, map[string]any{
		"count": len(items),
		"total": x.Len(),
		"items": items,
	})
}

func eventFilter(r *http.Request) (*filter.EventFilter, error) {
	q := r.URL.Query()
	f := &filter.EventFilter{
		Kind:     q.Get("kind"),
		Key:      q.Get("key"),
		StatusJD: q.Get("status_jd"),
		StatusAM: q.Get("status_am"),
		Source:   q.Get("source"),
		Search:   q.Get("q"),
	}
	for name, dst := range map[string]**float64{"from_jd": &f.FromJD, "to_jd": &f.ToJD} {
		if strings.TrimSpace(q.Get(name)) == "" {
			continue
		}
		v, err := floatParam(r, name, 0)
		if err != nil {
			return nil, err
		}
		*dst = &v
	}
	return f, f.Validate()
}

// HandleGetEvent handles GET {prefix}/events/{key}.
func (h *Handlers) HandleGetEvent(w http.ResponseWriter, r *http.Request, key string) {
	x, err := h.index(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	rec, ok := x.Get(key)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("event", key))
		return
	}
	response.OK(w, rec)
}
