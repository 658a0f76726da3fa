package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/opengov-in/rti-sahayak/pkg/errors"
)

func newHealthRouter(checks map[string]HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(checks, logging.NewNop())
	r := gin.New()
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	return r
}

func TestLiveness(t *testing.T) {
	w := httptest.NewRecorder()
	newHealthRouter(nil).ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestReadiness_AllUp(t *testing.T) {
	checks := map[string]HealthChecker{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return nil },
	}

	w := httptest.NewRecorder()
	newHealthRouter(checks).ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"up"`)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)
}

func TestReadiness_DependencyDown(t *testing.T) {
	checks := map[string]HealthChecker{
		"postgres": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			return pkgerrors.New(pkgerrors.ErrCodeCacheError, "connection refused")
		},
	}

	w := httptest.NewRecorder()
	newHealthRouter(checks).ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
	assert.Contains(t, w.Body.String(), `"status":"not ready"`)
}
