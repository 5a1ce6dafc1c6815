package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Persistence metrics
	BlocksSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_blocks_saved_total",
			Help: "Total number of blocks persisted",
		},
	)

	TransactionsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_transactions_saved_total",
			Help: "Total number of transactions persisted",
		},
	)

	SaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "computechain_explorer_save_batch_duration_seconds",
			Help:    "Duration of block batch persistence transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReorgRewinds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_reorg_rewinds_total",
			Help: "Total number of reorg rewinds applied to the store",
		},
	)

	BlocksDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "computechain_explorer_blocks_deleted_total",
			Help: "Total number of blocks deleted by reorg rewinds",
		},
	)
)

func observeSave(blocks, txs int, duration time.Duration) {
	BlocksSaved.Add(float64(blocks))
	TransactionsSaved.Add(float64(txs))
	SaveDuration.Observe(duration.Seconds())
}
