package ocean

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bottlesSpawned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_ocean_bottles_spawned_total",
		Help: "Bottles added to a scene pool by reconciliation",
	})

	bottlesSunk = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_ocean_bottles_sunk_total",
		Help: "Bottles evicted after completing the sink animation",
	})

	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bottlemessage_ocean_frame_seconds",
		Help:    "Time spent advancing one animation frame",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})
)
