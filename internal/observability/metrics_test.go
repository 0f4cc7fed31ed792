package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/incidents", http.MethodGet, 200, 15*time.Millisecond)
	m.RecordRequest("/incidents", http.MethodGet, 200, 5*time.Millisecond)
	m.RecordError("/incidents/:id", http.MethodGet, "NOT_FOUND")
	m.RecordIncidentCreated("theft")
	m.RecordStatusChange("resolved")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/incidents", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorTotal.WithLabelValues(http.MethodGet, "/incidents/:id", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.incidentsCreated.WithLabelValues("theft")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("resolved")))
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordIncidentCreated("safety")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `incidents_created_total{category="safety"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
	m.RecordIncidentCreated("other")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
