package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and catalog Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "khoj",
			Name:      "searches_total",
			Help:      "Total number of search requests",
		},
		[]string{"outcome"}, // "ok" / "empty" / "degraded" / "cancelled"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "khoj",
			Name:      "search_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"path"}, // "rank" / "reference_id"
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "khoj",
			Name:      "search_cache_total",
			Help:      "Search cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CatalogRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "khoj",
			Name:      "catalog_refresh_total",
			Help:      "Catalog snapshot refresh attempts",
		},
		[]string{"status"}, // "ok" / "error"
	)

	CatalogEntities = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "khoj",
			Name:      "catalog_entities",
			Help:      "Entities in the current catalog snapshot",
		},
	)

	AlertsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "khoj",
			Name:      "alerts_dropped_total",
			Help:      "Availability events dropped due to a full queue",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search Prometheus metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(CatalogRefreshTotal)
	prometheus.MustRegister(CatalogEntities)
	prometheus.MustRegister(AlertsDroppedTotal)
	searchMetricsRegistered = true
}
