package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Every recorder is safe to call on a
// nil *Metrics, so components can run without monitoring in tests.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Command metrics
	CommandsSubmitted *prometheus.CounterVec
	CommandsRejected  prometheus.Counter
	Payloads          *prometheus.CounterVec
	Batches           *prometheus.CounterVec
	SchedulerPending  prometheus.Gauge

	// Inference channel metrics
	BridgeRequests *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec
	BridgeErrors   *prometheus.CounterVec

	// Session metrics
	SessionsActive prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMetrics creates a metrics collector registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		stop:      make(chan struct{}),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minebot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minebot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Command metrics
		CommandsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minebot_commands_submitted_total",
				Help: "Total number of commands submitted to game sessions",
			},
			[]string{"namespace"},
		),
		CommandsRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "minebot_commands_rejected_total",
				Help: "Total number of commands rejected by the whitelist",
			},
		),
		Payloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minebot_payloads_total",
				Help: "Total number of inference payloads handled, by kind",
			},
			[]string{"kind"},
		),
		Batches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minebot_batches_total",
				Help: "Total number of command batches, by outcome",
			},
			[]string{"outcome"},
		),
		SchedulerPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "minebot_scheduler_pending",
				Help: "Number of scheduled commands not yet submitted",
			},
		),

		// Inference channel metrics
		BridgeRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minebot_bridge_requests_total",
				Help: "Total number of requests to the inference channel",
			},
			[]string{"endpoint", "status"},
		),
		BridgeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minebot_bridge_request_duration_seconds",
				Help:    "Inference channel request duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 45},
			},
			[]string{"endpoint"},
		),
		BridgeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minebot_bridge_errors_total",
				Help: "Total number of failed inference channel requests",
			},
			[]string{"endpoint", "type"},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "minebot_sessions_active",
				Help: "Number of connected game sessions",
			},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "minebot_uptime_seconds",
				Help: "Bridge uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime updates the uptime metric until Close
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.stop:
			return
		}
	}
}

// Close stops the uptime updater
func (m *Metrics) Close() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommandSubmitted records one command handed to a sink
func (m *Metrics) RecordCommandSubmitted(namespace string) {
	if m == nil {
		return
	}
	m.CommandsSubmitted.WithLabelValues(namespace).Inc()
}

// RecordCommandsRejected records whitelist rejections
func (m *Metrics) RecordCommandsRejected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CommandsRejected.Add(float64(n))
}

// RecordPayload records a handled payload
func (m *Metrics) RecordPayload(kind string) {
	if m == nil {
		return
	}
	m.Payloads.WithLabelValues(kind).Inc()
}

// RecordBatch records a batch outcome (scheduled, completed, aborted)
func (m *Metrics) RecordBatch(outcome string) {
	if m == nil {
		return
	}
	m.Batches.WithLabelValues(outcome).Inc()
}

// SetSchedulerPending sets the number of pending scheduled commands
func (m *Metrics) SetSchedulerPending(n int) {
	if m == nil {
		return
	}
	m.SchedulerPending.Set(float64(n))
}

// RecordBridgeRequest records a completed inference channel request
func (m *Metrics) RecordBridgeRequest(endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BridgeRequests.WithLabelValues(endpoint, status).Inc()
	m.BridgeDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordBridgeError records a failed inference channel request
func (m *Metrics) RecordBridgeError(endpoint, errType string) {
	if m == nil {
		return
	}
	m.BridgeErrors.WithLabelValues(endpoint, errType).Inc()
}

// IncSessions increments connected sessions
func (m *Metrics) IncSessions() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

// DecSessions decrements connected sessions
func (m *Metrics) DecSessions() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}
