package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StaleFetchesDiscarded counts range-fetch responses dropped because the
	// viewport changed before they resolved.
	StaleFetchesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldcal_stale_fetches_discarded_total",
		Help: "Total number of range fetch responses discarded as stale.",
	})

	// RescheduleRollbacks counts drag moves reverted after a store failure.
	RescheduleRollbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldcal_reschedule_rollbacks_total",
		Help: "Total number of drag reschedules rolled back.",
	})

	// Mutations counts confirmed store mutations by operation.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldcal_mutations_total",
		Help: "Total number of confirmed event mutations.",
	}, []string{"operation"})

	// CacheHits and CacheMisses track the event detail cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldcal_detail_cache_hits_total",
		Help: "Total number of event detail reads served from cache.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldcal_detail_cache_misses_total",
		Help: "Total number of event detail reads that went to the store.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldcal_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "path"})
)

// Middleware counts requests per method and route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path).Inc()
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
