package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Kinds of search recorded by Metrics.
const (
	searchKindTop      = "top"
	searchKindSorted   = "sorted"
	searchKindEach     = "each"
	searchKindUnscored = "unscored"
	searchKindExplain  = "explain"
)

// Metrics holds the Prometheus collectors of a searcher.
type Metrics struct {
	SearchesTotal *prometheus.CounterVec
	HitsTotal     prometheus.Counter
	SearchLatency *prometheus.HistogramVec
}

/*
NewMetrics creates the search collectors and registers them on reg,
or on the default registerer when reg is nil.
*/
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosearch_searches_total",
				Help: "Total searches by kind (top, sorted, each, unscored, explain).",
			},
			[]string{"kind"},
		),
		HitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gosearch_hits_total",
				Help: "Total matching documents counted by searches.",
			},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gosearch_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"kind"},
		),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.SearchesTotal, m.HitsTotal, m.SearchLatency)
	return m
}

// observe records one search of kind which counted hits, started at start.
func (m *Metrics) observe(kind string, hits int, start time.Time) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(kind).Inc()
	if hits > 0 {
		m.HitsTotal.Add(float64(hits))
	}
	m.SearchLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
