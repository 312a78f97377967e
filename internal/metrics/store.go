package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every restodex metric.
const Namespace = "restodex"

// Record store and cache metrics.
var (
	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "store_requests_total",
			Help:      "Total number of record store calls",
		},
		[]string{"op", "status"}, // status: "ok" / "not_found" / "error"
	)

	StoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "store_request_duration_seconds",
			Help:      "Record store call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"},
	)

	RecencyCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recency_cache_total",
			Help:      "Restaurant lookup cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RecencyCacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recency_cache_evictions_total",
			Help:      "Entries evicted from the restaurant lookup cache",
		},
	)

	RecencyCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "recency_cache_entries",
			Help:      "Entries currently held by the restaurant lookup cache",
		},
	)

	CountCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "count_cache_total",
			Help:      "Search count cache hits and misses",
		},
		[]string{"result"},
	)

	SearchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_failures_total",
			Help:      "Store failures absorbed into empty results",
		},
		[]string{"operation"}, // "search" / "get"
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers record store and cache metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreRequestsTotal)
	prometheus.MustRegister(StoreRequestDuration)
	prometheus.MustRegister(RecencyCacheTotal)
	prometheus.MustRegister(RecencyCacheEvictionsTotal)
	prometheus.MustRegister(RecencyCacheEntries)
	prometheus.MustRegister(CountCacheTotal)
	prometheus.MustRegister(SearchFailuresTotal)
	storeMetricsRegistered = true
}
