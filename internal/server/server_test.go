package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/internal/cmd/application"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testIndex(t *testing.T) *events.Index {
	t.Helper()
	x := events.NewIndex()
	se, _ := x.GetOrCreate("SE_2017_08_21")
	require.NoError(t, se.Set(events.FieldKind, "solar_eclipse"))
	require.NoError(t, se.Set(events.FieldJDUT, 2457987.2674))
	require.NoError(t, se.Set(events.FieldStatusAM, "OK"))

	v, _ := x.GetOrCreate("VOLC_TAMBORA")
	require.NoError(t, v.Set(events.FieldKind, "volcano"))
	require.NoError(t, v.Set(events.FieldStatusAM, "WARN"))

	nojd, _ := x.GetOrCreate("NO_JD")
	require.NoError(t, nojd.Set(events.FieldKind, "Volcano"))
	return x
}

func newTestServer(t *testing.T, mock *application.Mock) http.Handler {
	t.Helper()
	if mock.IndexFunc == nil {
		x := testIndex(t)
		mock.IndexFunc = func(context.Context) (*events.Index, error) { return x, nil }
	}
	srv, err := New(mock, DefaultConfig())
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &application.Mock{})
	w, env := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.Error)
	assert.Contains(t, string(env.Data), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestReady(t *testing.T) {
	h := newTestServer(t, &application.Mock{})
	w, env := do(t, h, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"records":3`)

	missing := newTestServer(t, &application.Mock{
		IndexFunc: func(context.Context) (*events.Index, error) {
			return nil, &errors.SourceMissingError{Path: "AMJD_EVENT_INDEX.csv"}
		},
	})
	w, _ = do(t, missing, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestConvert(t *testing.T) {
	h := newTestServer(t, &application.Mock{})

	w, env := do(t, h, http.MethodGet, "/api/v1/convert?system=gregorian&date=2025-10-09&lon=19.9", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info struct {
		Time struct {
			JD float64 `json:"jd"`
			AM float64 `json:"am"`
		} `json:"time"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, 2460958.5, info.Time.JD)
	assert.Equal(t, 739288.5, info.Time.AM)

	w, env = do(t, h, http.MethodGet, "/api/v1/convert?system=aztec&date=2025-10-09", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)

	w, _ = do(t, h, http.MethodGet, "/api/v1/convert?date=2025-10-09&lon=east", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, http.MethodPost, "/api/v1/convert", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestJD(t *testing.T) {
	h := newTestServer(t, &application.Mock{})
	w, env := do(t, h, http.MethodGet, "/api/v1/jd/2460958.5?lon=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"am":739288.5`)

	w, _ = do(t, h, http.MethodGet, "/api/v1/jd/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvents(t *testing.T) {
	h := newTestServer(t, &application.Mock{})

	var list struct {
		Count int              `json:"count"`
		Total int              `json:"total"`
		Items []*events.Record `json:"items"`
	}

	_, env := do(t, h, http.MethodGet, "/api/v1/events", "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, "NO_JD", list.Items[0].Key)

	_, env = do(t, h, http.MethodGet, "/api/v1/events?kind=volcano", "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Count)

	_, env = do(t, h, http.MethodGet, "/api/v1/events?status_am=warn", "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "VOLC_TAMBORA", list.Items[0].Key)

	_, env = do(t, h, http.MethodGet, "/api/v1/events?limit=1", "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Count)

	_, env = do(t, h, http.MethodGet, "/api/v1/events?key=SE_*&from_jd=2457000", "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "SE_2017_08_21", list.Items[0].Key)

	_, env = do(t, h, http.MethodGet, "/api/v1/events?kind=lunar_eclipse", "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Items)

	w, _ := do(t, h, http.MethodGet, "/api/v1/events?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, http.MethodGet, "/api/v1/events?from_jd=soon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, http.MethodGet, "/api/v1/events?from_jd=2&to_jd=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvent(t *testing.T) {
	h := newTestServer(t, &application.Mock{})

	w, env := do(t, h, http.MethodGet, "/api/v1/events/SE_2017_08_21", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec events.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, 2457987.2674, *rec.JDUT)

	w, env = do(t, h, http.MethodGet, "/api/v1/events/NOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestIndexLoadedOnce(t *testing.T) {
	calls := 0
	x := testIndex(t)
	h := newTestServer(t, &application.Mock{
		IndexFunc: func(context.Context) (*events.Index, error) {
			calls++
			return x, nil
		},
	})
	for i := 0; i < 3; i++ {
		do(t, h, http.MethodGet, "/api/v1/events", "")
	}
	assert.Equal(t, 1, calls)
}

func TestIndexTimeout(t *testing.T) {
	mock := &application.Mock{
		IndexFunc: func(ctx context.Context) (*events.Index, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	cfg := DefaultConfig()
	cfg.RequestTimeout = 20 * time.Millisecond
	srv, err := New(mock, cfg)
	require.NoError(t, err)

	w, env := do(t, srv.Handler(), http.MethodGet, "/api/v1/events", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "TIMEOUT", env.Error.Code)
	assert.Contains(t, env.Error.Message, "load event index")
}

func TestEclipseVisibility(t *testing.T) {
	h := newTestServer(t, &application.Mock{})

	body := `{"type":"solar","jd":2457987.2674,"name":"Hopkinsville","lat_deg":36.97,"lon_deg":-87.67,"elev_m":170}`
	w, env := do(t, h, http.MethodPost, "/api/v1/eclipse/visibility", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var vis struct {
		Visible         bool    `json:"visible"`
		CoveragePercent float64 `json:"coverage_percent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &vis))
	assert.True(t, vis.Visible)
	assert.Greater(t, vis.CoveragePercent, 50.0)

	byKey := `{"type":"solar","key":"SE_2017_08_21","lat_deg":36.97,"lon_deg":-87.67}`
	w, _ = do(t, h, http.MethodPost, "/api/v1/eclipse/visibility", byKey)
	assert.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"bad type", `{"type":"annular","jd":1}`, http.StatusBadRequest},
		{"bad latitude", `{"type":"solar","jd":1,"lat_deg":91}`, http.StatusBadRequest},
		{"no jd", `{"type":"solar"}`, http.StatusBadRequest},
		{"key without jd", `{"type":"solar","key":"NO_JD"}`, http.StatusBadRequest},
		{"unknown key", `{"type":"lunar","key":"NOPE"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, h, http.MethodPost, "/api/v1/eclipse/visibility", tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}

	w, _ = do(t, h, http.MethodGet, "/api/v1/eclipse/visibility", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, &application.Mock{})
	do(t, h, http.MethodGet, "/api/v1/events/SE_2017_08_21", "")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `amjd_http_requests_total{code="200",route="/api/v1/events/{param}"} 1`)
}

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:8080", cfg.Addr())
}
