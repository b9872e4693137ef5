// Package metrics registers the Prometheus instruments for the scheduling
// core and exposes the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubmissionsTotal counts committed availability submissions by source
	// ("manual" or "calendar").
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slotpoll_submissions_total",
		Help: "Committed availability submissions by source.",
	}, []string{"source"})

	// DegradedImportsTotal counts calendar imports that fell back to
	// all-unavailable because the feed could not be read.
	DegradedImportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotpoll_degraded_imports_total",
		Help: "Calendar imports that failed closed.",
	})

	// AggregationCacheHits and AggregationCacheMisses track the aggregation
	// read-through cache.
	AggregationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotpoll_aggregation_cache_hits_total",
		Help: "Aggregation results served from cache.",
	})
	AggregationCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotpoll_aggregation_cache_misses_total",
		Help: "Aggregation results recomputed from storage.",
	})

	// EventsPurgedTotal counts events removed by the retention job.
	EventsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotpoll_events_purged_total",
		Help: "Ended events removed by the cleanup job.",
	})
)

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
