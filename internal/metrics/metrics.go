package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	DetectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "langback_detections_total",
		Help: "Total number of detection requests by outcome (detected, undetermined)",
	}, []string{"outcome"})

	DetectionsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "langback_detections_failed_total",
		Help: "Total number of detection requests that failed before scoring",
	})

	DetectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "langback_detection_seconds",
		Help:    "Histogram of detection durations in seconds",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	DetectedLanguages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "langback_detected_language_total",
		Help: "Number of times a language was the top result",
	}, []string{"language"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "langback_cache_lookups_total",
		Help: "Result cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	InputsTruncated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "langback_inputs_truncated_total",
		Help: "Number of inputs cut to the configured maximum size",
	})

	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "langback_batch_items",
		Help:    "Number of items per batch detection request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)

func RegisterMetrics() {
	prometheus.MustRegister(DetectionsTotal)
	prometheus.MustRegister(DetectionsFailed)
	prometheus.MustRegister(DetectionDuration)
	prometheus.MustRegister(DetectedLanguages)
	prometheus.MustRegister(CacheLookups)
	prometheus.MustRegister(InputsTruncated)
	prometheus.MustRegister(BatchSize)
}
