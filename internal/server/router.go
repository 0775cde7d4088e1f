package server

import (
	"net/http"
	"strings"

	"github.com/agentstation/amjd/internal/server/handlers"
	"github.com/agentstation/amjd/internal/server/middleware"
	"github.com/agentstation/amjd/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	h := handlers.New(s.app, s.cache, s.logger)
	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	mux.HandleFunc(prefix+"/convert", only(http.MethodGet, h.HandleConvert))

	mux.HandleFunc(prefix+"/jd/", only(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		raw := extractPathParam(r.URL.Path, prefix+"/jd/")
		if raw == "" {
			response.BadRequest(w, "JD required", "use "+prefix+"/jd/{jd}")
			return
		}
		h.HandleJD(w, r, raw)
	}))

	mux.HandleFunc(prefix+"/events", only(http.MethodGet, h.HandleListEvents))
	mux.HandleFunc(prefix+"/events/", only(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		key := extractPathParam(r.URL.Path, prefix+"/events/")
		if key == "" {
			h.HandleListEvents(w, r)
			return
		}
		h.HandleGetEvent(w, r, key)
	}))

	mux.HandleFunc(prefix+"/eclipse/visibility", only(http.MethodPost, h.HandleEclipseVisibility))

	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.app.Metrics().Handler())
	}
}

// applyMiddleware wraps handler with the middleware chain. Recovery runs
// outermost so a panic anywhere still yields an envelope.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.Metrics(s.app.Metrics(), s.route),
		middleware.Timeout(s.config.RequestTimeout),
	}
	if len(s.config.CORSOrigins) > 0 {
		chain = append(chain, middleware.CORS(s.config.CORSOrigins))
	}
	return middleware.Chain(chain...)(handler)
}

// route collapses a request path to its route pattern so metric label
// cardinality stays bounded.
func (s *Server) route(r *http.Request) string {
	prefix := s.config.PathPrefix
	path := r.URL.Path
	for _, p := range []string{"/events/", "/jd/"} {
		if strings.HasPrefix(path, prefix+p) && len(path) > len(prefix+p) {
			return prefix + p + "{param}"
		}
	}
	switch path {
	case "/health", "/metrics", prefix + "/health", prefix + "/ready", prefix + "/convert",
		prefix + "/events", prefix + "/eclipse/visibility":
		return path
	}
	return "other"
}

// only rejects methods other than method with the API's 405 envelope.
func only(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		next(w, r)
	}
}

// extractPathParam returns the first path segment after prefix.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	return strings.SplitN(trimmed, "/", 2)[0]
}
