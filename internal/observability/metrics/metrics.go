package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymledger_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gymledger_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	checkInsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymledger_checkins_recorded_total",
		Help: "Count of check-in attempts by result",
	}, []string{"result"})

	checkInsRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymledger_checkins_removed_total",
		Help: "Count of check-in removals by result",
	}, []string{"result"})

	calendarCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymledger_calendar_cache_lookups_total",
		Help: "Calendar month cache lookups by outcome",
	}, []string{"outcome"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveCheckInRecorded increments the record counter with "ok", "duplicate"
// or "error".
func ObserveCheckInRecorded(result string) {
	checkInsRecorded.WithLabelValues(result).Inc()
}

// ObserveCheckInRemoved increments the removal counter with "ok", "not_found"
// or "error".
func ObserveCheckInRemoved(result string) {
	checkInsRemoved.WithLabelValues(result).Inc()
}

// ObserveCalendarCache records a cache lookup outcome ("hit" or "miss").
func ObserveCalendarCache(outcome string) {
	calendarCacheLookups.WithLabelValues(outcome).Inc()
}
