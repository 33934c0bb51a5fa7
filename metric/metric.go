package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CountersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "common",
		Name:      "counters_total",
		Help:      "",
	}, []string{"name"})

	// ContextLimitEvents counts limit and push-down decisions taken on query contexts.
	ContextLimitEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "context",
		Name:      "limit_events_total",
		Help:      "",
	}, []string{"event"})

	ScanQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "queries_total",
		Help:      "",
	})
	ScannedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "rows_total",
		Help:      "",
	})
	ScannedSegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "segments_total",
		Help:      "",
	}, []string{"source"})
	PartialResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "partial_results_total",
		Help:      "",
	})
	ThresholdExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "threshold_exceeded_total",
		Help:      "",
	})
	ScanRowsPerQuery = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "rows_per_query",
		Help:      "",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 16),
	})
	ScanStagesSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "stages_seconds",
		Help:      "",
		Buckets:   SecondsBuckets,
	}, []string{"stage"})
	ScannerPanics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "scan",
		Name:      "panics_total",
		Help:      "",
	})

	SegmentBlocksSealed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "segment",
		Name:      "blocks_sealed_total",
		Help:      "",
	}, []string{"codec"})

	// SecondsBuckets covers range from 1ms to 177s.
	SecondsBuckets = prometheus.ExponentialBuckets(0.001, 3, 12)
)
