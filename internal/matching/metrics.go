package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triaged"

var (
	resolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "resolution_duration_seconds",
			Help:      "Duration of the full matching pipeline per enquiry",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	resolutionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "outcomes_total",
			Help:      "Matching outcomes by signal (hit = resolved, miss = absent)",
		},
		[]string{"signal", "result"},
	)

	detectedCategories = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "detected_category_total",
			Help:      "Detected product categories per enquiry",
		},
		[]string{"category"},
	)

	rankedCases = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "ranked_cases",
			Help:      "Number of relevant cases returned per enquiry",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 30},
		},
	)
)

const (
	signalCategory = "category"
	signalModel    = "model"
	signalWarranty = "warranty"

	resultHit  = "hit"
	resultMiss = "miss"
)

func outcome(hit bool) string {
	if hit {
		return resultHit
	}
	return resultMiss
}

func recordResolution(detected *Category, matchedModel *string, warrantyYears *int, cases int, durationSeconds float64) {
	resolutionDuration.Observe(durationSeconds)
	resolutionOutcomes.WithLabelValues(signalCategory, outcome(detected != nil)).Inc()
	resolutionOutcomes.WithLabelValues(signalModel, outcome(matchedModel != nil)).Inc()
	resolutionOutcomes.WithLabelValues(signalWarranty, outcome(warrantyYears != nil)).Inc()
	rankedCases.Observe(float64(cases))

	if detected != nil {
		detectedCategories.WithLabelValues(string(*detected)).Inc()
	} else {
		detectedCategories.WithLabelValues("none").Inc()
	}
}
