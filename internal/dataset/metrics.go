package dataset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triaged"

var (
	datasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "load_duration_seconds",
			Help:      "Duration of dataset fetch and parse in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"dataset", "status"},
	)

	datasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Number of rows in the loaded dataset",
		},
		[]string{"dataset"},
	)
)

const (
	datasetHistory  = "history"
	datasetWarranty = "warranty"

	statusSuccess = "success"
	statusError   = "error"
)

// RecordDatasetLoad records one fetch+parse attempt.
func RecordDatasetLoad(dataset string, durationSeconds float64, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	datasetLoadDuration.WithLabelValues(dataset, status).Observe(durationSeconds)
}

// SetDatasetRows updates the loaded row count gauge.
func SetDatasetRows(dataset string, rows int) {
	datasetRows.WithLabelValues(dataset).Set(float64(rows))
}
