package shadergraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are created unregistered; hosts add them to their own registry
// with Collectors.
var factory = promauto.With(nil)

var (
	compileTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shadergraph_compile_total",
		Help: "Graph compilations by result",
	}, []string{"result"})

	compileDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadergraph_compile_duration_seconds",
		Help:    "Graph compilation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
	})

	simulateTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shadergraph_simulate_total",
		Help: "Preview simulations by result",
	}, []string{"result"})

	simulateDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadergraph_simulate_duration_seconds",
		Help:    "Preview simulation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 0.1ms to ~1.6s
	})

	programBuildTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shadergraph_program_builds_total",
		Help: "GPU program builds by result",
	}, []string{"result"})
)

// Collectors returns the package metrics for registration, e.g.
// prometheus.MustRegister(shadergraph.Collectors()...).
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		compileTotal,
		compileDuration,
		simulateTotal,
		simulateDuration,
		programBuildTotal,
	}
}
