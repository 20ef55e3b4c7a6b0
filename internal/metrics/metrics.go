// Package metrics exposes Prometheus metrics of the simulated device.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "customied"

// Metrics contains all device metrics. A nil *Metrics discards observations.
type Metrics struct {
	registry *prometheus.Registry

	Ticks            prometheus.Counter
	TickDuration     prometheus.Histogram
	AnalogValue      *prometheus.GaugeVec
	ConnectionsOpen  prometheus.Gauge
	ConnectionEvents *prometheus.CounterVec
	FileAccessTotal  *prometheus.CounterVec
	ServerStatus     prometheus.Gauge
}

// New creates the metrics and registers them on a private registry
// together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "ticks_total",
			Help:      "Total number of update loop iterations",
		}),

		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "tick_duration_seconds",
			Help:      "Time spent computing and publishing one tick",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		AnalogValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "analog_value",
			Help:      "Last published analog sample per channel",
		}, []string{"channel"}),

		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connections_open",
			Help:      "Number of open client connections",
		}),

		ConnectionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connection_events_total",
			Help:      "Client connection events by kind",
		}, []string{"event"}),

		FileAccessTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "file_access_total",
			Help:      "File service requests by operation and decision",
		}, []string{"operation", "decision"}),

		ServerStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "state",
			Help:      "Server state (0=created, 1=started, 2=running, 3=stopped, 4=destroyed)",
		}),
	}

	m.registry.MustRegister(
		m.Ticks,
		m.TickDuration,
		m.AnalogValue,
		m.ConnectionsOpen,
		m.ConnectionEvents,
		m.FileAccessTotal,
		m.ServerStatus,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Tick records one loop iteration.
func (m *Metrics) Tick(d time.Duration, samples []float64) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.TickDuration.Observe(d.Seconds())
	for i, v := range samples {
		m.AnalogValue.WithLabelValues(strconv.Itoa(i + 1)).Set(v)
	}
}

// ConnectionEvent records a client connecting or disconnecting.
func (m *Metrics) ConnectionEvent(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.ConnectionsOpen.Inc()
		m.ConnectionEvents.WithLabelValues("opened").Inc()
		return
	}
	m.ConnectionsOpen.Dec()
	m.ConnectionEvents.WithLabelValues("closed").Inc()
}

// FileAccess records a file access decision.
func (m *Metrics) FileAccess(op, decision string) {
	if m == nil {
		return
	}
	m.FileAccessTotal.WithLabelValues(op, decision).Inc()
}

// ServerState records a server lifecycle transition.
func (m *Metrics) ServerState(state int) {
	if m == nil {
		return
	}
	m.ServerStatus.Set(float64(state))
}
