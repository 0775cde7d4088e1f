package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"jd": "2460958.5"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decode(t, w)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"jd": "2460958.5"}, resp.Data)
}

func TestFail(t *testing.T) {
	resp := Fail("TEST", "message", "details")
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, Error{Code: "TEST", Message: "message", Details: "details"}, *resp.Error)
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowed(w, http.MethodDelete)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decode(t, w).Error.Details, "DELETE")
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"not found", errors.NewNotFoundError("event", "X"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", errors.NewValidationError("jd", "abc", "not a number"), http.StatusBadRequest, "BAD_REQUEST"},
		{"unsupported system", errors.NewUnsupportedSystemError("aztec"), http.StatusBadRequest, "BAD_REQUEST"},
		{"date parse", errors.NewDateParseError("x", "bad"), http.StatusBadRequest, "BAD_REQUEST"},
		{"missing columns", &errors.MissingColumnsError{Missing: []string{"JD_UT"}}, http.StatusUnprocessableEntity, "INVALID_DATASET"},
		{"timeout", &errors.TimeoutError{Operation: "index"}, http.StatusGatewayTimeout, "TIMEOUT"},
		{"source missing", &errors.SourceMissingError{Path: "index.csv"}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.kind, decode(t, w).Error.Code)
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("secret path /etc/x"))
	assert.NotContains(t, w.Body.String(), "secret")
}
