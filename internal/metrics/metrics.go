// Package metrics defines the Prometheus collectors for graphdsl.
//
// Collectors are registered on the default registry via promauto so a host
// process only needs to expose promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compile result labels.
const (
	ResultOK    = "ok"
	ResultFault = "fault"
)

var (
	// CompilesTotal counts compile calls by outcome. A "fault" compile
	// returned the empty program.
	CompilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdsl_compiles_total",
			Help: "Total number of DSL compilations by result",
		},
		[]string{"result"},
	)

	// CompiledOps observes the top-level op count of successful compiles.
	CompiledOps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdsl_compile_ops",
			Help:    "Number of top-level ops in compiled programs",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	)

	// EdgeResolutions counts edge classifications. fallback="true" marks
	// resolutions that defaulted to COUSIN because no usable rule existed.
	EdgeResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdsl_edge_resolutions_total",
			Help: "Total number of edge kind resolutions",
		},
		[]string{"kind", "fallback"},
	)
)
