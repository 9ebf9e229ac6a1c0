package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_RecordMovement(t *testing.T) {
	m := NewMonitor()
	m.RecordMovement("IN", 150)
	m.RecordMovement("IN", 50)
	m.RecordMovement("OUT", 0)

	movements := m.metrics["movements"].(*prometheus.CounterVec)
	value := m.metrics["movement_value"].(*prometheus.CounterVec)

	assert.Equal(t, 2.0, testutil.ToFloat64(movements.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(movements.WithLabelValues("OUT")))
	assert.Equal(t, 200.0, testutil.ToFloat64(value.WithLabelValues("IN")))
}

func TestMonitor_RecordAudit(t *testing.T) {
	m := NewMonitor()
	m.RecordAudit(1000)
	m.RecordAudit(800)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.metrics["audits"]))
	assert.Equal(t, 800.0, testutil.ToFloat64(m.metrics["inventory_value"]))
}

func TestMonitor_RecordWasteAndAdvisory(t *testing.T) {
	m := NewMonitor()
	m.RecordWaste(12.5)
	m.RecordWaste(-1)
	m.RecordAdvisory("recipe", "ok")
	m.RecordAdvisory("recipe", "unavailable")
	m.RecordAdvisory("recipe", "unavailable")

	advisory := m.metrics["advisory"].(*prometheus.CounterVec)
	assert.Equal(t, 12.5, testutil.ToFloat64(m.metrics["waste_cost"]))
	assert.Equal(t, 2.0, testutil.ToFloat64(advisory.WithLabelValues("recipe", "unavailable")))
}

func TestMonitor_NilIsNoop(t *testing.T) {
	var m *Monitor
	assert.NotPanics(t, func() {
		m.RecordMovement("IN", 1)
		m.RecordWaste(1)
		m.RecordAudit(1)
		m.RecordAdvisory("shopping", "ok")
	})
	assert.Nil(t, m.Registry())
	assert.Zero(t, m.Uptime())
}

func TestMonitor_Handler(t *testing.T) {
	m := NewMonitor()
	m.RecordMovement("IN", 10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cmvboard_stock_movements_total{direction="IN"} 1`), body)
	assert.Contains(t, body, "cmvboard_uptime_seconds")
}
