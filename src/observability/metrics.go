// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Poller metrics
	PollsTotal   *prometheus.CounterVec
	PollLatency  *prometheus.HistogramVec
	PollerActive prometheus.Gauge
	ActiveTimers prometheus.Gauge

	// Pipeline metrics
	UpdatesApplied *prometheus.CounterVec
	UpdatesDropped *prometheus.CounterVec
	FastFresh      *prometheus.GaugeVec

	// Push metrics
	WSClients      prometheus.Gauge
	NATSPublished  *prometheus.CounterVec
	LastBroadcast  prometheus.Gauge
	SelectionTotal *prometheus.CounterVec
}

// -----------------------------------------------------------------------------

// NewMetrics creates a Metrics instance registered on reg
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "live_indices"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PollsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "polls_total",
			Help:      "Total number of backend polls by source and result",
		}, []string{"source", "result"}),
		PollLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "poll_latency_seconds",
			Help:      "Backend poll latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		PollerActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "running",
			Help:      "1 while the poll timers are running",
		}),
		ActiveTimers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "active_timers",
			Help:      "Number of poll timers currently running",
		}),

		UpdatesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "updates_applied_total",
			Help:      "Poll completions applied to the reconciliation state",
		}, []string{"source"}),
		UpdatesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "updates_dropped_total",
			Help:      "Poll completions discarded by reason",
		}, []string{"source", "reason"}),
		FastFresh: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fast_fresh",
			Help:      "1 when the fast feed holds today's session for the entity",
		}, []string{"entity"}),

		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "ws_clients",
			Help:      "Connected websocket clients",
		}),
		NATSPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "nats_published_total",
			Help:      "Records published to NATS by result",
		}, []string{"result"}),
		LastBroadcast: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "last_broadcast_timestamp",
			Help:      "Unix timestamp of the last view broadcast",
		}),
		SelectionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "selections_total",
			Help:      "Entity selections by entity",
		}, []string{"entity"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves a specific registry.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// -----------------------------------------------------------------------------

// RecordPoll records one backend poll.
func (m *Metrics) RecordPoll(source, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PollsTotal.WithLabelValues(source, result).Inc()
	m.PollLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// SetPollerRunning updates the running gauge and timer count.
func (m *Metrics) SetPollerRunning(running bool, timers int) {
	if m == nil {
		return
	}
	if running {
		m.PollerActive.Set(1)
	} else {
		m.PollerActive.Set(0)
	}
	m.ActiveTimers.Set(float64(timers))
}

// RecordApplied counts an applied completion.
func (m *Metrics) RecordApplied(source string) {
	if m == nil {
		return
	}
	m.UpdatesApplied.WithLabelValues(source).Inc()
}

// RecordDropped counts a discarded completion.
func (m *Metrics) RecordDropped(source, reason string) {
	if m == nil {
		return
	}
	m.UpdatesDropped.WithLabelValues(source, reason).Inc()
}

// SetFresh records the freshness classification of an entity.
func (m *Metrics) SetFresh(entity string, fresh bool) {
	if m == nil {
		return
	}
	v := 0.0
	if fresh {
		v = 1
	}
	m.FastFresh.WithLabelValues(entity).Set(v)
}

// SetWSClients records the number of connected websocket clients.
func (m *Metrics) SetWSClients(n int) {
	if m == nil {
		return
	}
	m.WSClients.Set(float64(n))
}

// RecordPublish records a NATS publish.
func (m *Metrics) RecordPublish(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.NATSPublished.WithLabelValues("error").Inc()
		return
	}
	m.NATSPublished.WithLabelValues("ok").Inc()
}

// RecordBroadcast stamps the last broadcast time.
func (m *Metrics) RecordBroadcast(at time.Time) {
	if m == nil {
		return
	}
	m.LastBroadcast.Set(float64(at.Unix()))
}

// RecordSelection counts a selection change.
func (m *Metrics) RecordSelection(entity string) {
	if m == nil {
		return
	}
	m.SelectionTotal.WithLabelValues(entity).Inc()
}
