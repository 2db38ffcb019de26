package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sbilibin2017/bestellsystem/internal/apperrors"
	"github.com/sbilibin2017/bestellsystem/internal/config"
	"github.com/sbilibin2017/bestellsystem/internal/handlers"
	"github.com/sbilibin2017/bestellsystem/internal/metrics"
	"github.com/sbilibin2017/bestellsystem/internal/middlewares"
)

func newTestApp(t *testing.T, debug bool) http.Handler {
	t.Helper()
	cfg := &config.Config{Profile: config.ProfileTesting, Testing: true, Debug: debug, Host: "127.0.0.1", Port: 8000}
	return New(cfg, zap.NewNop().Sugar(), metrics.New())
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestApp(t, false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(middlewares.RequestIDHeader))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"status": "ok"}, body)
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		expectedMsg  string
	}{
		{"unknown route", http.MethodGet, "/api/v1/orders", http.StatusNotFound, handlers.NotFoundDescription},
		{"unknown root route", http.MethodGet, "/nope", http.StatusNotFound, handlers.NotFoundDescription},
		{"method not allowed", http.MethodPost, "/api/v1/health", http.StatusMethodNotAllowed, handlers.MethodNotAllowedDescription},
	}

	handler := newTestApp(t, false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var env apperrors.Envelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
			assert.Equal(t, tt.expectedMsg, env.Error.Message)
			assert.Equal(t, tt.expectedCode, env.Error.StatusCode)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestApp(t, false)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `bestellsystem_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`)
}

func TestSwaggerDoc(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestApp(t, false).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc["basePath"])
	assert.Contains(t, doc["paths"], "/health")
}

func TestProfilerOnlyInDebug(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestApp(t, true).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	newTestApp(t, false).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer(t *testing.T) {
	cfg := &config.Config{Host: "127.0.0.1", Port: 9000}
	srv := Server(cfg, http.NotFoundHandler())

	assert.Equal(t, "127.0.0.1:9000", srv.Addr)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}
