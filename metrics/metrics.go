// Package metrics exposes Prometheus collectors for trail store operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// BuildsTotal counts builder invocations by outcome.
	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnet_builds_total",
			Help: "Total number of trail store builds",
		},
		[]string{"result"},
	)

	// BuildDuration measures wall time of successful builds, validation included.
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trailnet_build_duration_seconds",
			Help:    "Duration of trail store builds in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// LoadsTotal counts interchange file loads by format and outcome.
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnet_loads_total",
			Help: "Total number of trail and raster file loads",
		},
		[]string{"format", "result"},
	)

	// CapacityRejections counts builds rejected because a node exceeded its incidence capacity.
	CapacityRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trailnet_capacity_rejections_total",
			Help: "Builds rejected for exceeding per-node incidence capacity",
		},
	)

	// EndpointMismatches tracks edges whose stored endpoints differ from their node positions.
	EndpointMismatches = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trailnet_endpoint_mismatches",
			Help: "Edges whose endpoint positions differ from their node positions",
		},
		[]string{"env"},
	)
)
