package window

import "github.com/prometheus/client_golang/prometheus"

var (
	// supersededPasses counts filter results dropped because a newer
	// query generation was issued while they were scanning.
	supersededPasses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "window_filter_passes_superseded_total",
		Help: "Filter passes whose results were discarded as stale.",
	})

	// loadedRows gauges the currently materialized window size.
	loadedRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "window_loaded_rows",
		Help: "Number of rows currently materialized in the visible window.",
	})
)

func init() {
	prometheus.MustRegister(supersededPasses, loadedRows)
}
