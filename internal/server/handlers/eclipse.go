package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/amjd/internal/server/response"
	"github.com/agentstation/amjd/pkg/eclipse"
	"github.com/agentstation/amjd/pkg/ephemeris"
	"github.com/agentstation/amjd/pkg/errors"
)

// VisibilityRequest is the body of POST {prefix}/eclipse/visibility. Either
// JD or the key of an indexed event must be given.
type VisibilityRequest struct {
	JD     *float64 `json:"jd,omitempty"`
	Key    string   `json:"key,omitempty"`
	Type   string   `json:"type"`
	Name   string   `json:"name,omitempty"`
	LatDeg float64  `json:"lat_deg"`
	LonDeg float64  `json:"lon_deg"`
	ElevM  float64  `json:"elev_m"`
}

// VisibilityResponse adds the resolved site and coverage percentage.
type VisibilityResponse struct {
	eclipse.Visibility
	Site            ephemeris.Site `json:"site"`
	Key             string         `json:"key,omitempty"`
	CoveragePercent float64        `json:"coverage_percent"`
}

// HandleEclipseVisibility handles POST {prefix}/eclipse/visibility.
func (h *Handlers) HandleEclipseVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	kind, err := eclipse.ParseKind(req.Type)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if req.LatDeg < -90 || req.LatDeg > 90 {
		response.ErrorFromType(w, errors.NewValidationError("lat_deg", req.LatDeg, "must be within [-90, 90]"))
		return
	}

	jd := req.JD
	if jd == nil && req.Key != "" {
		x, err := h.index(r.Context())
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		rec, ok := x.Get(req.Key)
		if !ok {
			response.ErrorFromType(w, errors.NewNotFoundError("event", req.Key))
			return
		}
		jd = rec.JDUT
	}
	if jd == nil {
		response.ErrorFromType(w, errors.NewValidationError("jd", nil, "jd or the key of an event with jd_ut is required"))
		return
	}

	site := ephemeris.Site{Name: req.Name, LatDeg: req.LatDeg, LonDeg: req.LonDeg, ElevM: req.ElevM}
	vis, err := eclipse.Check(h.app.Ephemeris(), kind, *jd, site)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, VisibilityResponse{
		Visibility:      vis,
		Site:            site,
		Key:             req.Key,
		CoveragePercent: vis.CoveragePercent(),
	})
}
