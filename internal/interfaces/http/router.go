// Package http wires the gin route tree and the API server around it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/prometheus"
	"github.com/opengov-in/rti-sahayak/internal/interfaces/http/handlers"
	"github.com/opengov-in/rti-sahayak/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree
// needs.
type RouterConfig struct {
	RequestHandler  *handlers.RequestHandler
	ClassifyHandler *handlers.ClassifyHandler
	SweepHandler    *handlers.SweepHandler
	HealthHandler   *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector

	// Mode is the gin mode; empty means release.
	Mode string
}

// NewRouter builds the full route tree as an http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	{
		if h := cfg.RequestHandler; h != nil {
			api.POST("/requests", h.Submit)
			api.GET("/requests", h.List)
			api.GET("/requests/:ref", h.Get)
			api.POST("/requests/:ref/file", h.File)
			api.POST("/requests/:ref/acknowledge", h.Acknowledge)
			api.POST("/requests/:ref/response", h.RecordResponse)
			api.POST("/requests/:ref/close", h.Close)
			api.GET("/requests/:ref/appeal", h.Appeal)
		}
		if h := cfg.ClassifyHandler; h != nil {
			api.POST("/classify", h.Classify)
		}
		if h := cfg.SweepHandler; h != nil {
			api.POST("/escalation/sweep", h.Sweep)
		}
	}

	return r
}
