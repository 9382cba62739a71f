package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Crawl, engine and cache Prometheus metrics.
var (
	CrawlPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intell",
			Name:      "crawl_pages_total",
			Help:      "Crawled pages by outcome",
		},
		[]string{"result"}, // "indexed" / "failed" / "skipped_depth"
	)

	CrawlFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "intell",
			Name:      "crawl_fetch_duration_seconds",
			Help:      "Page fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)

	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intell",
			Name:      "engine_requests_total",
			Help:      "Search engine requests by operation and status",
		},
		[]string{"op", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intell",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intell",
			Name:      "cache_total",
			Help:      "Suggestion and trending cache hits and misses",
		},
		[]string{"kind", "result"}, // kind: "suggest" / "trending"; result: "hit" / "miss" / "error"
	)
)

var registerOnce sync.Once

// RegisterDomainMetrics registers crawl, engine and cache metrics on the
// default registry. Safe to call more than once.
func RegisterDomainMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CrawlPagesTotal)
		prometheus.MustRegister(CrawlFetchDuration)
		prometheus.MustRegister(EngineRequestsTotal)
		prometheus.MustRegister(EngineRequestDuration)
		prometheus.MustRegister(CacheTotal)
	})
}

// ObserveEngine records one engine call.
func ObserveEngine(op string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EngineRequestsTotal.WithLabelValues(op, status).Inc()
	EngineRequestDuration.WithLabelValues(op).Observe(seconds)
}
