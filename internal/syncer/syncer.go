package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/computechain/explorer/internal/chain"
	"github.com/computechain/explorer/internal/logger"
	"github.com/computechain/explorer/internal/store"
	"github.com/computechain/explorer/internal/types"
	"github.com/computechain/explorer/pkg/config"
	"github.com/ethereum/go-ethereum/common"
)

// Storage is the store access the syncer needs.
type Storage interface {
	Watermark(ctx context.Context) (uint64, error)
	SaveBlocks(ctx context.Context, batch []store.BlockWithTxs) error
	BlockHashAt(ctx context.Context, height uint64) (common.Hash, bool, error)
	DeleteFrom(ctx context.Context, height uint64) error
}

// Compile-time check that the real store satisfies Storage.
var _ Storage = (*store.Store)(nil)

// Syncer drives the indexing loop: poll the node height, catch up from
// the watermark in batches, and periodically probe recent blocks for
// reorganizations.
type Syncer struct {
	client  ChainSource
	fetcher *BatchFetcher
	store   Storage
	reorg   *ReorgDetector
	cfg     *config.SyncerConfig
	log     *logger.Logger

	lastResync time.Time
}

// New creates a Syncer with its fetcher and reorg detector.
func New(client ChainSource, storage Storage, cfg *config.SyncerConfig, log *logger.Logger) *Syncer {
	return &Syncer{
		client:  client,
		fetcher: NewBatchFetcher(client, cfg, log),
		store:   storage,
		reorg:   NewReorgDetector(client, storage, cfg.ResyncDepth, log),
		cfg:     cfg,
		log:     log.WithComponent("syncer"),
	}
}

// Run executes sync cycles until the context is cancelled. Failed cycles
// sleep for the error cooldown instead of the poll interval so a broken
// node is not hammered.
func (s *Syncer) Run(ctx context.Context) error {
	s.log.Infof("syncer started, poll interval %s, batch size %d", s.cfg.PollInterval, s.cfg.BatchSize)

	for {
		sleep := s.cfg.PollInterval.Duration

		if err := s.Cycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			SyncCycleErrors.Inc()
			s.log.Errorf("sync cycle failed: %v", err)
			sleep = s.cfg.ErrorCooldown.Duration
		}

		select {
		case <-ctx.Done():
			s.log.Info("syncer stopped")
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// Cycle runs one sync iteration: reorg probe when due, then catch-up
// toward the node's current height.
func (s *Syncer) Cycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		SyncCycleDuration.Observe(time.Since(start).Seconds())
	}()

	height, err := s.client.CurrentHeight(ctx)
	if err != nil {
		return fmt.Errorf("querying chain height: %w", err)
	}
	if height == 0 {
		s.log.Debug("node reports no height yet")
		return nil
	}

	ChainHeight.Set(float64(height))

	if time.Since(s.lastResync) >= s.cfg.ResyncInterval.Duration {
		s.lastResync = time.Now()

		if err := s.checkReorg(ctx); err != nil {
			return err
		}
	}

	watermark, err := s.store.Watermark(ctx)
	if err != nil {
		return fmt.Errorf("reading watermark: %w", err)
	}

	WatermarkHeight.Set(float64(watermark))

	if watermark >= height {
		return nil
	}

	blocks, err := s.fetcher.FetchRange(ctx, watermark+1, height)
	if err != nil {
		if errors.Is(err, ErrStall) {
			s.log.Debugf("no blocks available above %d yet", watermark)
			return nil
		}

		return fmt.Errorf("fetching blocks %d-%d: %w", watermark+1, height, err)
	}

	// A fork below the tip shows up as a first block whose parent is not
	// the block we indexed at the watermark. Rewinding here lets the
	// periodic probe depth stay small.
	if diverged, err := s.parentMismatch(ctx, watermark, blocks[0]); err != nil {
		return err
	} else if diverged {
		return s.reorg.HandleFrom(ctx, watermark)
	}

	batch, err := buildBatch(blocks)
	if err != nil {
		return err
	}

	if err := s.store.SaveBlocks(ctx, batch); err != nil {
		return fmt.Errorf("persisting blocks: %w", err)
	}

	newWatermark := batch[len(batch)-1].Block.Height
	WatermarkHeight.Set(float64(newWatermark))

	s.log.Infof("indexed %d blocks, watermark %d -> %d (chain at %d)",
		len(batch), watermark, newWatermark, height)

	return nil
}

// parentMismatch reports whether the first fetched block does not extend
// the block stored at the watermark.
func (s *Syncer) parentMismatch(ctx context.Context, watermark uint64, first *chain.RawBlock) (bool, error) {
	if watermark == 0 {
		return false, nil
	}

	stored, found, err := s.store.BlockHashAt(ctx, watermark)
	if err != nil || !found {
		return false, err
	}

	return common.HexToHash(first.Header.PrevHash) != stored, nil
}

func (s *Syncer) checkReorg(ctx context.Context) error {
	height, found, err := s.reorg.Detect(ctx)
	if err != nil {
		return fmt.Errorf("reorg probe: %w", err)
	}
	if !found {
		return nil
	}

	return s.reorg.HandleFrom(ctx, height)
}

// buildBatch converts raw node blocks into store rows, computing identity
// hashes and validating transaction types. Blocks carrying a transaction
// of an unknown type fail the cycle rather than being indexed wrong.
func buildBatch(blocks []*chain.RawBlock) ([]store.BlockWithTxs, error) {
	now := time.Now().Unix()
	batch := make([]store.BlockWithTxs, 0, len(blocks))

	for _, raw := range blocks {
		blockHash, err := chain.ComputeBlockHash(&raw.Header)
		if err != nil {
			return nil, fmt.Errorf("hashing block %d: %w", raw.Header.Height, err)
		}

		item := store.BlockWithTxs{
			Block: &store.Block{
				Height:             raw.Header.Height,
				Hash:               blockHash,
				PrevHash:           raw.Header.PrevHash,
				Timestamp:          raw.Header.Timestamp,
				ChainID:            raw.Header.ChainID,
				Proposer:           raw.Header.Proposer,
				TxRoot:             raw.Header.TxRoot,
				StateRoot:          raw.Header.StateRoot,
				ComputeRoot:        raw.Header.ComputeRoot,
				GasUsed:            raw.Header.GasUsed,
				GasLimit:           raw.Header.GasLimit,
				ZKStateProofHash:   raw.Header.ZKStateProofHash,
				ZKComputeProofHash: raw.Header.ZKComputeProofHash,
				PQSignature:        raw.PQSignature,
				PQSigSchemeID:      raw.PQSigSchemeID,
				TxCount:            len(raw.Transactions),
				IndexedAt:          now,
			},
		}

		for i := range raw.Transactions {
			rawTx := &raw.Transactions[i]

			txType, err := types.ParseTxType(rawTx.TxType)
			if err != nil {
				return nil, fmt.Errorf("block %d tx %d: %w", raw.Header.Height, i, err)
			}

			txHash, err := chain.ComputeTxHash(rawTx)
			if err != nil {
				return nil, fmt.Errorf("hashing block %d tx %d: %w", raw.Header.Height, i, err)
			}

			timestamp := rawTx.Timestamp
			if timestamp == 0 {
				timestamp = raw.Header.Timestamp
			}

			item.Txs = append(item.Txs, &store.Transaction{
				Hash:        txHash,
				BlockHeight: raw.Header.Height,
				TxIndex:     i,
				TxType:      txType,
				From:        rawTx.From,
				To:          rawTx.To,
				Amount:      rawTx.Amount.ToBig(),
				Fee:         rawTx.Fee.ToBig(),
				Nonce:       rawTx.Nonce,
				GasPrice:    rawTx.GasPrice,
				GasLimit:    rawTx.GasLimit,
				GasUsed:     rawTx.GasUsed,
				Signature:   rawTx.Signature,
				PubKey:      rawTx.PubKey,
				Payload:     rawTx.Payload,
				Timestamp:   timestamp,
			})
		}

		batch = append(batch, item)
	}

	return batch, nil
}
