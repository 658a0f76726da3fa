package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latencies. Route templates are used
// as the path label so reference numbers do not explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.HTTPActiveRequests.WithLabelValues(c.Request.Method).Inc()
		start := time.Now()
		c.Next()
		m.HTTPActiveRequests.WithLabelValues(c.Request.Method).Dec()

		prometheus.RecordHTTPRequest(m, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
