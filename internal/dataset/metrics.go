package dataset

import "github.com/prometheus/client_golang/prometheus"

// generationSeconds records how long the one-time roster generation took.
// A gauge (not a histogram) because generation happens once per process.
var generationSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "roster_generation_seconds",
	Help: "Wall-clock duration of the one-time roster generation.",
})

func init() {
	prometheus.MustRegister(generationSeconds)
}
