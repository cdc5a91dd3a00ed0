package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/logger"
)

func TestRequestIDAssigned(t *testing.T) {
	var seen string
	h := withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get(constants.RequestIDHeader)
	_, err := uuid.Parse(got)
	require.NoError(t, err, "request id %q is not a uuid", got)
	require.Equal(t, got, seen)
}

func TestRequestIDPropagated(t *testing.T) {
	h := withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", rec.Header().Get(constants.RequestIDHeader))
}

func TestRecoveryAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, log.InfoLevel)
	t.Cleanup(func() { logger.Logger = nil })

	h := withRequestID(withLogging(withRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(constants.RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	out := buf.String()
	require.True(t, strings.Contains(out, "Recovered from handler panic"), out)
	require.True(t, strings.Contains(out, "status=500"), out)
	require.True(t, strings.Contains(out, "request_id=req-1"), out)
}

func TestUnknownRouteIs404(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotEmpty(t, rec.Header().Get(constants.RequestIDHeader))
}
