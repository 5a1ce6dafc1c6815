package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync progress metrics
	WatermarkHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "computechain_explorer_watermark_height",
			Help: "Height of the last fully indexed block",
		},
	)

	ChainHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "computechain_explorer_chain_height",
			Help: "Latest chain height reported by the node",
		},
	)

	SyncCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "computechain_explorer_sync_cycle_duration_seconds",
			Help:    "Duration of sync cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	SyncCycleErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_sync_cycle_errors_total",
			Help: "Total number of failed sync cycles",
		},
	)

	BlocksFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_blocks_fetched_total",
			Help: "Total number of blocks fetched from the node",
		},
	)

	FetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_fetch_failures_total",
			Help: "Total number of failed block fetches",
		},
	)

	ReorgsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_reorgs_detected_total",
			Help: "Total number of detected chain reorganizations",
		},
	)

	ReorgDepthObserved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "computechain_explorer_reorg_depth_blocks",
			Help:    "Depth of detected reorganizations in blocks",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 20, 50},
		},
	)
)
