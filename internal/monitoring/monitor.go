package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor collects the dashboard's prometheus metrics on a private registry.
// A nil *Monitor is valid and records nothing.
type Monitor struct {
	registry  *prometheus.Registry
	metrics   map[string]prometheus.Collector
	startTime time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	registry := prometheus.NewRegistry()
	startTime := time.Now()

	movements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmvboard_stock_movements_total",
			Help: "Stock movements recorded",
		},
		[]string{"direction"},
	)

	movementValue := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmvboard_stock_movement_value_total",
			Help: "Monetary value of recorded stock movements",
		},
		[]string{"direction"},
	)

	wasteCost := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cmvboard_waste_cost_total",
			Help: "Cost of stock lost to waste",
		},
	)

	audits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cmvboard_audits_finalized_total",
			Help: "Inventory audits finalized",
		},
	)

	inventoryValue := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cmvboard_last_inventory_value",
			Help: "Total value of the most recent inventory record",
		},
	)

	advisory := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmvboard_advisory_requests_total",
			Help: "Advisory text requests",
		},
		[]string{"kind", "outcome"},
	)

	uptime := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "cmvboard_uptime_seconds",
			Help: "Seconds since the process started",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)

	metrics := map[string]prometheus.Collector{
		"movements":       movements,
		"movement_value":  movementValue,
		"waste_cost":      wasteCost,
		"audits":          audits,
		"inventory_value": inventoryValue,
		"advisory":        advisory,
		"uptime":          uptime,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &Monitor{
		registry:  registry,
		metrics:   metrics,
		startTime: startTime,
	}
}

// Registry exposes the underlying registry
func (m *Monitor) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Monitor) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Uptime returns the time since the monitor was created
func (m *Monitor) Uptime() time.Duration {
	if m == nil {
		return 0
	}
	return time.Since(m.startTime)
}

// RecordMovement records a ledger movement and its value
func (m *Monitor) RecordMovement(direction string, value float64) {
	if m == nil {
		return
	}
	if counter, ok := m.metrics["movements"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(direction).Inc()
	}
	if counter, ok := m.metrics["movement_value"].(*prometheus.CounterVec); ok && value > 0 {
		counter.WithLabelValues(direction).Add(value)
	}
}

// RecordWaste records the cost of a waste log
func (m *Monitor) RecordWaste(cost float64) {
	if m == nil || cost <= 0 {
		return
	}
	if counter, ok := m.metrics["waste_cost"].(prometheus.Counter); ok {
		counter.Add(cost)
	}
}

// RecordAudit records a finalized audit and the value of its record
func (m *Monitor) RecordAudit(totalValue float64) {
	if m == nil {
		return
	}
	if counter, ok := m.metrics["audits"].(prometheus.Counter); ok {
		counter.Inc()
	}
	if gauge, ok := m.metrics["inventory_value"].(prometheus.Gauge); ok {
		gauge.Set(totalValue)
	}
}

// RecordAdvisory records an advisory request outcome
func (m *Monitor) RecordAdvisory(kind, outcome string) {
	if m == nil {
		return
	}
	if counter, ok := m.metrics["advisory"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(kind, outcome).Inc()
	}
}
