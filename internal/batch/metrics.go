package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipenter_batches_processed_total",
		Help: "Number of batches run through the processing pipeline.",
	})

	filesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipenter_files_processed_total",
		Help: "Number of files processed across all batches.",
	})

	recognitionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipenter_recognition_fallbacks_total",
		Help: "Number of batches that degraded to simulated recognition data.",
	})
)
