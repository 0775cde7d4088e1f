package handlers

import (
	"net/http"

	"github.com/agentstation/amjd/internal/server/response"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/instant"
	"github.com/agentstation/amjd/pkg/table"
)

// HandleConvert handles GET {prefix}/convert?system=&date=&time=&lon=.
// system defaults to gregorian; date accepts ISO dates, month-name dates
// such as "14 rajab 1447" and, for system=am, AM day numbers.
func (h *Handlers) HandleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lon, err := floatParam(r, "lon", 0)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	req := instant.Request{
		System: q.Get("system"),
		Date:   q.Get("date"),
		Time:   q.Get("time"),
		Lon:    lon,
	}
	if req.System == "" {
		req.System = "gregorian"
	}

	v, err := h.cache.Memo("convert:"+r.URL.RawQuery, func() (any, error) {
		return instant.Convert(h.app.Ephemeris(), req)
	})
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, v)
}

// HandleJD handles GET {prefix}/jd/{jd}?lon=.
func (h *Handlers) HandleJD(w http.ResponseWriter, r *http.Request, raw string) {
	jd := table.ParseFloat(raw)
	if jd == nil {
		response.ErrorFromType(w, errors.NewValidationError("jd", raw, "must be a number"))
		return
	}
	lon, err := floatParam(r, "lon", 0)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	info, err := instant.FromJD(h.app.Ephemeris(), *jd, lon)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, info)
}
