package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every application metric.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Request lifecycle
	RequestsSubmittedTotal   CounterVec
	RequestsFiledTotal       CounterVec
	StatusTransitionsTotal   CounterVec
	FeeExemptionsTotal       CounterVec
	ClassificationsTotal     CounterVec
	ClassificationConfidence HistogramVec

	// Filing gateway
	GatewayAttemptsTotal CounterVec
	GatewayDuration      HistogramVec

	// Escalation sweeps
	SweepsTotal        CounterVec
	SweepScanned       HistogramVec
	RemindersSentTotal CounterVec
	AppealsFiledTotal  CounterVec
	SweepFailuresTotal CounterVec

	// Catalog
	CatalogReloadsTotal CounterVec
	CatalogCategories   GaugeVec
	CatalogOffices      GaugeVec

	// Infrastructure
	DBQueryDuration  HistogramVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	LockAcquireTotal CounterVec
	EventsPublished  CounterVec
}

var (
	httpDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	gatewayDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	dbDurationBuckets      = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	scanCountBuckets       = []float64{0, 10, 50, 100, 500, 1000, 5000}
	confidenceBuckets      = []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// NewAppMetrics registers the full metric set with the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.RequestsSubmittedTotal = collector.RegisterCounter("requests_submitted_total", "Requests drafted", "category")
	m.RequestsFiledTotal = collector.RegisterCounter("requests_filed_total", "Requests filed with the portal", "office_id")
	m.StatusTransitionsTotal = collector.RegisterCounter("status_transitions_total", "Lifecycle status transitions", "from", "to")
	m.FeeExemptionsTotal = collector.RegisterCounter("fee_exemptions_total", "Fee exemptions granted")
	m.ClassificationsTotal = collector.RegisterCounter("classifications_total", "Classification outcomes", "category")
	m.ClassificationConfidence = collector.RegisterHistogram("classification_confidence", "Classifier confidence", confidenceBuckets, "category")

	m.GatewayAttemptsTotal = collector.RegisterCounter("gateway_attempts_total", "Filing gateway attempts", "result")
	m.GatewayDuration = collector.RegisterHistogram("gateway_duration_seconds", "Filing gateway round-trip duration", gatewayDurationBuckets)

	m.SweepsTotal = collector.RegisterCounter("sweeps_total", "Escalation sweeps run", "result")
	m.SweepScanned = collector.RegisterHistogram("sweep_scanned_requests", "Requests scanned per sweep", scanCountBuckets)
	m.RemindersSentTotal = collector.RegisterCounter("reminders_sent_total", "Pre-deadline reminders sent")
	m.AppealsFiledTotal = collector.RegisterCounter("appeals_filed_total", "First appeals filed", "ground")
	m.SweepFailuresTotal = collector.RegisterCounter("sweep_failures_total", "Per-request sweep failures")

	m.CatalogReloadsTotal = collector.RegisterCounter("catalog_reloads_total", "Catalog reload attempts", "result")
	m.CatalogCategories = collector.RegisterGauge("catalog_categories", "Categories in the active catalog")
	m.CatalogOffices = collector.RegisterGauge("catalog_offices", "Offices in the active catalog")

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", dbDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.LockAcquireTotal = collector.RegisterCounter("lock_acquire_total", "Per-request lock acquisitions", "result")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Lifecycle events published", "topic", "result")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordClassification(metrics *AppMetrics, category string, confidence float64) {
	metrics.ClassificationsTotal.WithLabelValues(category).Inc()
	metrics.ClassificationConfidence.WithLabelValues(category).Observe(confidence)
}

func RecordGatewayAttempt(metrics *AppMetrics, success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	metrics.GatewayAttemptsTotal.WithLabelValues(result).Inc()
	metrics.GatewayDuration.WithLabelValues().Observe(duration.Seconds())
}

func RecordSweep(metrics *AppMetrics, scanned, reminders, failures int) {
	result := "clean"
	if failures > 0 {
		result = "partial"
	}
	metrics.SweepsTotal.WithLabelValues(result).Inc()
	metrics.SweepScanned.WithLabelValues().Observe(float64(scanned))
	metrics.RemindersSentTotal.WithLabelValues().Add(float64(reminders))
	metrics.SweepFailuresTotal.WithLabelValues().Add(float64(failures))
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}
