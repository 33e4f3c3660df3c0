package querycache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	fetches  *prometheus.CounterVec
	entries  prometheus.Gauge
}

// newMetrics registers the collectors with reg. A nil reg leaves them
// unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farecal_querycache_requests_total",
			Help: "Cache lookups by key family and result (hit, miss, join, disabled).",
		}, []string{"family", "result"}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farecal_querycache_fetches_total",
			Help: "Completed fetches by key family and outcome.",
		}, []string{"family", "outcome"}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "farecal_querycache_entries",
			Help: "Number of entries held by the cache.",
		}),
	}
}
