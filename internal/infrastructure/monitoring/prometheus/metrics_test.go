package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.RequestsSubmittedTotal)
	assert.NotNil(t, m.RequestsFiledTotal)
	assert.NotNil(t, m.StatusTransitionsTotal)
	assert.NotNil(t, m.ClassificationsTotal)
	assert.NotNil(t, m.GatewayAttemptsTotal)
	assert.NotNil(t, m.SweepsTotal)
	assert.NotNil(t, m.RemindersSentTotal)
	assert.NotNil(t, m.AppealsFiledTotal)
	assert.NotNil(t, m.CatalogReloadsTotal)
	assert.NotNil(t, m.LockAcquireTotal)
	assert.NotNil(t, m.EventsPublished)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/requests", 201, 40*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `rti_http_requests_total{method="POST",path="/api/v1/requests",status_code="201"} 1`)
	assert.Contains(t, output, "rti_http_request_duration_seconds_count")
}

func TestRecordClassification(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordClassification(m, "road_infrastructure", 0.82)
	RecordClassification(m, "other", 0)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `rti_classifications_total{category="road_infrastructure"} 1`)
	assert.Contains(t, output, `rti_classifications_total{category="other"} 1`)
}

func TestRecordGatewayAttempt(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordGatewayAttempt(m, true, 800*time.Millisecond)
	RecordGatewayAttempt(m, false, 10*time.Second)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `rti_gateway_attempts_total{result="success"} 1`)
	assert.Contains(t, output, `rti_gateway_attempts_total{result="failure"} 1`)
}

func TestRecordSweep(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordSweep(m, 120, 14, 0)
	RecordSweep(m, 80, 2, 3)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `rti_sweeps_total{result="clean"} 1`)
	assert.Contains(t, output, `rti_sweeps_total{result="partial"} 1`)
	assert.Contains(t, output, "rti_reminders_sent_total 16")
	assert.Contains(t, output, "rti_sweep_failures_total 3")
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "classify", true)
	RecordCacheAccess(m, "classify", true)
	RecordCacheAccess(m, "classify", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `rti_cache_hits_total{cache="classify"} 2`)
	assert.Contains(t, output, `rti_cache_misses_total{cache="classify"} 1`)
}
