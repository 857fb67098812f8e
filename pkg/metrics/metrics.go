package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestDuration tracks latency of incentive backend calls
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartela_upstream_request_duration_seconds",
			Help:    "Duration of upstream incentive API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"route", "status"},
	)

	// BoardResolves counts cartela progress engine runs
	BoardResolves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cartela_board_resolves_total",
			Help: "Number of board progress resolutions computed",
		},
	)

	// BoardCacheLookups counts board view cache lookups by outcome
	BoardCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartela_board_cache_lookups_total",
			Help: "Board view cache lookups by result",
		},
		[]string{"result"},
	)

	// SnapshotFallbacks counts reads served from the stale snapshot store
	SnapshotFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cartela_board_snapshot_fallbacks_total",
			Help: "Board reads served from the last-known-good snapshot",
		},
	)
)

// ObserveUpstreamRequest records one upstream call. A status of zero means
// the request never reached the backend.
func ObserveUpstreamRequest(route string, status int, seconds float64) {
	UpstreamRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(seconds)
}

// RecordCacheLookup ...
func RecordCacheLookup(result string) {
	BoardCacheLookups.WithLabelValues(result).Inc()
}
