package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/computechain/explorer/internal/chain"
	"github.com/computechain/explorer/internal/logger"
	"github.com/computechain/explorer/pkg/config"
	"golang.org/x/sync/errgroup"
)

// ChainSource is the node access the syncer needs.
type ChainSource interface {
	CurrentHeight(ctx context.Context) (uint64, error)
	BlockByHeight(ctx context.Context, height uint64) (*chain.RawBlock, error)
}

// Compile-time check that the real node client satisfies ChainSource.
var _ ChainSource = (*chain.Client)(nil)

// ErrStall is returned when the node serves none of the heights the
// syncer needs next. The caller retries on the next cycle.
var ErrStall = errors.New("node served no fetchable blocks")

// fetchConcurrency bounds parallel block requests within a sub-batch.
const fetchConcurrency = 8

// BatchFetcher pulls ranges of blocks from the node in bounded
// concurrent sub-batches.
type BatchFetcher struct {
	client ChainSource
	cfg    *config.SyncerConfig
	log    *logger.Logger
}

// NewBatchFetcher creates a new BatchFetcher.
func NewBatchFetcher(client ChainSource, cfg *config.SyncerConfig, log *logger.Logger) *BatchFetcher {
	return &BatchFetcher{
		client: client,
		cfg:    cfg,
		log:    log.WithComponent("batch-fetcher"),
	}
}

// FetchRange fetches blocks for [from, to] and returns the contiguous
// prefix starting at from. Individual height failures are tolerated: the
// result is truncated at the first missing height, so a hole in the
// node's responses can never become a hole in the index. ErrStall is
// returned when not even the first height could be fetched.
func (f *BatchFetcher) FetchRange(ctx context.Context, from, to uint64) ([]*chain.RawBlock, error) {
	if to < from {
		return nil, nil
	}

	var result []*chain.RawBlock

	for start := from; start <= to; start += f.cfg.BatchSize {
		end := min(start+f.cfg.BatchSize-1, to)

		blocks, complete, err := f.fetchSubBatch(ctx, start, end)
		if err != nil {
			return nil, err
		}

		result = append(result, blocks...)

		if !complete {
			break
		}

		if end < to && f.cfg.BatchDelay.Duration > 0 {
			select {
			case <-time.After(f.cfg.BatchDelay.Duration):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if len(result) == 0 {
		return nil, ErrStall
	}

	BlocksFetched.Add(float64(len(result)))

	return result, nil
}

// fetchSubBatch fetches [start, end] concurrently and returns the
// contiguous prefix, plus whether the whole sub-batch was served.
func (f *BatchFetcher) fetchSubBatch(ctx context.Context, start, end uint64) ([]*chain.RawBlock, bool, error) {
	n := int(end - start + 1)
	results := make([]*chain.RawBlock, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i := range n {
		height := start + uint64(i)

		g.Go(func() error {
			block, err := f.client.BlockByHeight(gctx, height)
			if err != nil {
				FetchFailures.Inc()

				if errors.Is(err, chain.ErrNotFound) {
					f.log.Debugf("block %d not available yet", height)
				} else {
					f.log.Warnf("failed to fetch block %d: %v", height, err)
				}

				return nil
			}

			if block.Header.Height != height {
				FetchFailures.Inc()
				f.log.Warnf("node served block %d when asked for %d, discarding", block.Header.Height, height)

				return nil
			}

			results[i] = block

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	prefix := 0
	for prefix < n && results[prefix] != nil {
		prefix++
	}

	if prefix < n {
		f.log.Debugf("sub-batch %d-%d truncated at height %d", start, end, start+uint64(prefix))
	}

	return results[:prefix], prefix == n, nil
}
