// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_requests_total",
			Help: "Total number of listing requests by route and outcome",
		},
		[]string{"route", "outcome"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listing_request_duration_seconds",
			Help:    "Duration of listing request processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ListingsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listings_returned",
			Help:    "Number of listings returned per response, split by all/visible set",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"route", "set"},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_validation_failures_total",
			Help: "Total number of fetched rows rejected by the listing schema",
		},
	)

	InvalidBudgets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_invalid_budget_total",
			Help: "Requests whose budget did not parse as a number",
		},
		[]string{"route"},
	)
)

// ObserveListings records the size of the full and the visible result sets.
func ObserveListings(route string, all, visible int) {
	ListingsReturned.WithLabelValues(route, "all").Observe(float64(all))
	ListingsReturned.WithLabelValues(route, "visible").Observe(float64(visible))
}
