// Package monitoring exposes Prometheus metrics for the TermOS backend
// and a gin middleware that records HTTP request metrics.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Shell metrics
	CommandsTotal    *prometheus.CounterVec
	CommandsNotFound prometheus.Counter

	// Editor metrics
	EditorsOpened prometheus.Counter
	Keystrokes    prometheus.Counter

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates and registers the metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termos_shell_commands_total",
				Help: "Shell commands executed, by command name",
			},
			[]string{"command"},
		),
		CommandsNotFound: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termos_shell_commands_not_found_total",
				Help: "Command lines that named no known command",
			},
		),
		EditorsOpened: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termos_editor_sessions_total",
				Help: "Editor sessions opened",
			},
		),
		Keystrokes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termos_editor_keystrokes_total",
				Help: "Keystrokes delivered to the editor",
			},
		),

		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termos_sessions_active",
				Help: "Currently active shell sessions",
			},
		),
		SessionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termos_sessions_total",
				Help: "Shell sessions created",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termos_ws_connections",
				Help: "Open WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termos_ws_messages_total",
				Help: "WebSocket messages received, by type",
			},
			[]string{"type"},
		),
	}
}

// RecordCommand records one dispatched command line.
func (m *Metrics) RecordCommand(name string) {
	m.CommandsTotal.WithLabelValues(name).Inc()
}

// Uptime returns time since process start.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
