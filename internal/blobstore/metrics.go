package blobstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triaged"

var (
	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "blobstore",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of blob store fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"key", "status"},
	)

	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blobstore",
			Name:      "fetches_total",
			Help:      "Total number of blob store fetches",
		},
		[]string{"key", "status"},
	)
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// RecordFetch records one blob store fetch attempt (including retries).
func RecordFetch(key string, durationSeconds float64, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	fetchDuration.WithLabelValues(key, status).Observe(durationSeconds)
	fetchesTotal.WithLabelValues(key, status).Inc()
}
