package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	// queueDepth gauges pending tasks on the run loop. A persistently
	// high value means slices are too large for the configured budget.
	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_loop_queue_depth",
		Help: "Number of tasks currently queued on the run loop.",
	})

	// filterSlices counts executed filter slices across all passes.
	filterSlices = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_filter_slices_total",
		Help: "Total number of time-bounded filter slices executed.",
	})

	// filterPassSeconds observes end-to-end filter pass duration,
	// including time spent parked between slices.
	filterPassSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_filter_pass_duration_seconds",
		Help:    "End-to-end duration of completed filter passes.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms..8s
	})
)

func init() {
	prometheus.MustRegister(queueDepth, filterSlices, filterPassSeconds)
}
