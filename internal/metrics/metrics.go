// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetable_admissions_total",
			Help: "Lesson and reschedule admission attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)

	ResolvedOccurrences = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timetable_resolved_occurrences",
			Help:    "Number of lessons in a resolved day",
			Buckets: prometheus.LinearBuckets(0, 2, 8),
		},
		[]string{"view"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
