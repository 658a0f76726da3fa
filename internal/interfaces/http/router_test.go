package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/prometheus"
	"github.com/opengov-in/rti-sahayak/internal/interfaces/http/handlers"
)

func newTestRouterConfig(t *testing.T) RouterConfig {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "rti"}, logging.NewNop())
	require.NoError(t, err)

	return RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(nil, logging.NewNop()),
		Logger:           logging.NewNop(),
		Metrics:          prometheus.NewAppMetrics(collector),
		MetricsCollector: collector,
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MetricsRecordRequests(t *testing.T) {
	cfg := newTestRouterConfig(t)
	router := NewRouter(cfg)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/nope", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, w.Body.String(), "rti_http_requests_total")
}
