package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triaged"

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Duration of LLM completion requests in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total number of LLM completion requests",
		},
		[]string{"model", "status"},
	)

	tokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens used",
		},
		[]string{"model", "direction"},
	)
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// RecordRequest records one completion attempt with its token usage.
func RecordRequest(model string, durationSeconds float64, success bool, inputTokens, outputTokens int64) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	requestDuration.WithLabelValues(model, status).Observe(durationSeconds)
	requestsTotal.WithLabelValues(model, status).Inc()

	if inputTokens > 0 {
		tokensTotal.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		tokensTotal.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}
