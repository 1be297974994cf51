package pipeline

import (
	"time"

	"github.com/MeKo-Tech/omr/internal/sheet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omr_pages_processed_total",
			Help: "Total number of decoded pages",
		},
		[]string{"calibration"}, // computed, reconstructed, identity
	)

	pageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "omr_page_duration_seconds",
			Help:    "Time to calibrate, normalize and decode one page",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	fieldFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omr_field_flags_total",
			Help: "Fields that did not decode cleanly",
		},
		[]string{"kind", "status"},
	)

	documentsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omr_documents_processed_total",
			Help: "Total number of assembled documents",
		},
	)
)

func observePage(calibration string, flags []sheet.Flag, elapsed time.Duration) {
	pagesProcessed.WithLabelValues(calibration).Inc()
	pageDuration.Observe(elapsed.Seconds())
	for _, f := range flags {
		fieldFlags.WithLabelValues(f.Field.Kind.String(), f.Status.String()).Inc()
	}
}

// WriteMetrics writes the pipeline metrics in the Prometheus text format,
// for node_exporter's textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
