// Package monitoring exposes Prometheus collectors for the sync engine.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects engine counters behind a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	ops            *prometheus.CounterVec
	remoteFailures *prometheus.CounterVec
	refreshSeconds *prometheus.HistogramVec
	notifications  prometheus.Counter
}

// New creates and registers the engine collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_engine_operations_total",
				Help: "User intents processed by the reconciliation engine",
			},
			[]string{"operation"},
		),
		remoteFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_remote_failures_total",
				Help: "Remote writes that were rejected",
			},
			[]string{"collection"},
		),
		refreshSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pantry_collection_refresh_seconds",
				Help:    "Time taken to refetch a collection from the remote store",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		),
		notifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pantry_notifications_total",
				Help: "User-visible notifications issued",
			},
		),
	}

	m.registry.MustRegister(m.ops, m.remoteFailures, m.refreshSeconds, m.notifications)
	return m
}

// Handler serves the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOp counts one processed engine operation.
func (m *Metrics) ObserveOp(operation string) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(operation).Inc()
}

// ObserveRemoteFailure counts one rejected remote write.
func (m *Metrics) ObserveRemoteFailure(collection string) {
	if m == nil {
		return
	}
	m.remoteFailures.WithLabelValues(collection).Inc()
}

// ObserveRefresh records the duration of one collection refetch.
func (m *Metrics) ObserveRefresh(collection string, seconds float64) {
	if m == nil {
		return
	}
	m.refreshSeconds.WithLabelValues(collection).Observe(seconds)
}

// ObserveNotification counts one issued notification.
func (m *Metrics) ObserveNotification() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}
