package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]HealthChecker
	logger logging.Logger
}

// NewHealthHandler builds the handler with named dependency checks.
func NewHealthHandler(checks map[string]HealthChecker, logger logging.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Liveness handles GET /healthz. The process is alive if it can answer.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. All dependency checks must pass.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", logging.String("component", name), logging.Err(err))
			components[name] = "down"
			healthy = false
			continue
		}
		components[name] = "up"
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not ready"
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
