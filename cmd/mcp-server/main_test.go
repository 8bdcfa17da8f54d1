package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

func newTestHandler(t *testing.T) (*server, http.Handler) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := newServer(tmlog.NewNopLogger(), reg)
	return s, s.routes(reg)
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestToolSimplify(t *testing.T) {
	s, h := newTestHandler(t)
	rec := post(h, `{"tool":"simplify","params":{"expr":"1/2 + 1/3"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "5/6", resp["string"])
	assert.Equal(t, 1.0, testutil.ToFloat64(s.calls.WithLabelValues("simplify", "ok")))
}

func TestToolErrorCounted(t *testing.T) {
	s, h := newTestHandler(t)
	rec := post(h, `{"tool":"nope","params":{"expr":"x"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown tool")
	rec = post(h, `{"tool":"also-not-a-tool","params":{"expr":"x"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.calls.WithLabelValues("unknown", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(s.calls))
	assert.Equal(t, 1, testutil.CollectAndCount(s.duration))

	post(h, `{"tool":"parse","params":{"expr":"x"}}`)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.calls.WithLabelValues("parse", "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(s.calls))
}

func TestToolRejectsBadBodies(t *testing.T) {
	_, h := newTestHandler(t)

	rec := post(h, `{"tool":"parse","params":{},"extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h, `{"tool":"parse","params":{"expr":"x"}} {"tool":"parse"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "trailing data")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tool", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSchemaHealthMetrics(t *testing.T) {
	_, h := newTestHandler(t)

	for _, path := range []string{"/schema", "/health", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	assert.Contains(t, rec.Body.String(), `"simplify"`)
}
