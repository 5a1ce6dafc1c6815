package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/computechain/explorer/internal/chain"
	"github.com/computechain/explorer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// reorgStore is the store access the detector needs.
type reorgStore interface {
	Watermark(ctx context.Context) (uint64, error)
	BlockHashAt(ctx context.Context, height uint64) (common.Hash, bool, error)
	DeleteFrom(ctx context.Context, height uint64) error
}

// ReorgDetector compares recently indexed blocks against what the node
// currently serves and rewinds the store when they diverge.
type ReorgDetector struct {
	client ChainSource
	store  reorgStore
	depth  uint64
	log    *logger.Logger
}

// NewReorgDetector creates a detector that probes up to depth blocks
// below the watermark.
func NewReorgDetector(client ChainSource, store reorgStore, depth uint64, log *logger.Logger) *ReorgDetector {
	return &ReorgDetector{
		client: client,
		store:  store,
		depth:  depth,
		log:    log.WithComponent("reorg-detector"),
	}
}

// Detect scans downward from the watermark and returns the lowest height
// where the stored hash no longer matches the chain. The scan stops at
// the first matching height: everything below a match is assumed
// canonical. A height missing on either side carries no evidence and is
// skipped, so a block the node transiently fails to serve never triggers
// a rewind.
func (d *ReorgDetector) Detect(ctx context.Context) (uint64, bool, error) {
	watermark, err := d.store.Watermark(ctx)
	if err != nil {
		return 0, false, err
	}
	if watermark == 0 {
		return 0, false, nil
	}

	floor := uint64(1)
	if watermark > d.depth {
		floor = watermark - d.depth + 1
	}

	var (
		divergence uint64
		diverged   bool
	)

	for height := watermark; height >= floor; height-- {
		stored, found, err := d.store.BlockHashAt(ctx, height)
		if err != nil {
			return 0, false, err
		}
		if !found {
			continue
		}

		current, found, err := d.chainHashAt(ctx, height)
		if err != nil {
			return 0, false, fmt.Errorf("checking chain at height %d: %w", height, err)
		}
		if !found {
			d.log.Debugf("chain has no block at height %d, skipping", height)
			continue
		}

		if current == stored {
			break
		}

		d.log.Warnf("divergence at height %d: stored %s, chain now %s",
			height, stored.Hex(), current.Hex())

		divergence = height
		diverged = true
	}

	return divergence, diverged, nil
}

// chainHashAt recomputes the identity hash of the block the node
// currently serves at a height.
func (d *ReorgDetector) chainHashAt(ctx context.Context, height uint64) (common.Hash, bool, error) {
	block, err := d.client.BlockByHeight(ctx, height)
	if errors.Is(err, chain.ErrNotFound) {
		return common.Hash{}, false, nil
	}
	if err != nil {
		return common.Hash{}, false, err
	}

	hash, err := chain.ComputeBlockHash(&block.Header)
	if err != nil {
		return common.Hash{}, false, err
	}

	return hash, true, nil
}

// HandleFrom rewinds the store so indexing resumes just below the
// divergence point. The deleted range is refilled by the normal catch-up
// path on subsequent cycles.
func (d *ReorgDetector) HandleFrom(ctx context.Context, height uint64) error {
	watermark, err := d.store.Watermark(ctx)
	if err != nil {
		return err
	}

	if err := d.store.DeleteFrom(ctx, height); err != nil {
		return fmt.Errorf("rewinding from height %d: %w", height, err)
	}

	ReorgsDetected.Inc()
	if watermark >= height {
		ReorgDepthObserved.Observe(float64(watermark - height + 1))
	}

	d.log.Infof("reorg handled, rewound to height %d", height-1)

	return nil
}
