package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the server's Prometheus collectors on a dedicated
// registry so tests can run multiple servers without collisions.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	assetsInlined   prometheus.Counter
	assetsSkipped   prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pagefuse_requests_total",
			Help: "Combine requests by input mode and outcome.",
		}, []string{"mode", "outcome"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagefuse_request_duration_seconds",
			Help:    "Combine request duration by input mode.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		assetsInlined: factory.NewCounter(prometheus.CounterOpts{
			Name: "pagefuse_assets_inlined_total",
			Help: "Assets successfully inlined into output documents.",
		}),
		assetsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "pagefuse_assets_skipped_total",
			Help: "Remote assets left un-inlined because their fetch failed.",
		}),
	}
}

func (m *metrics) observe(mode, outcome string, seconds float64) {
	m.requestsTotal.WithLabelValues(mode, outcome).Inc()
	m.requestDuration.WithLabelValues(mode).Observe(seconds)
}
