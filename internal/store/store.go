package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/computechain/explorer/internal/common"
	dbpkg "github.com/computechain/explorer/internal/db"
	"github.com/computechain/explorer/internal/logger"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

// ErrNoSuchBlock is returned by lookups for heights the store has not
// indexed.
var ErrNoSuchBlock = errors.New("block not indexed")

// Store is the SQLite-backed explorer store. Writes go through single
// transactions so the watermark never points past a partially persisted
// batch.
type Store struct {
	db          *sql.DB
	log         *logger.Logger
	maintenance dbpkg.Maintenance
}

// NewStore creates a new SQLite-backed Store. The maintenance coordinator
// may be nil, in which case writes run without the operation lock.
func NewStore(db *sql.DB, log *logger.Logger, maintenance dbpkg.Maintenance) *Store {
	return &Store{
		db:          db,
		log:         log,
		maintenance: maintenance,
	}
}

// lockOperations blocks store writes while maintenance holds the database.
func (s *Store) lockOperations() func() {
	if s.maintenance == nil {
		return func() {}
	}

	return s.maintenance.AcquireOperationLock()
}

// Watermark returns the height of the last fully indexed block.
// 0 means nothing has been indexed yet.
func (s *Store) Watermark(ctx context.Context) (uint64, error) {
	var state SyncState
	if err := meddler.QueryRow(s.db, &state, `SELECT * FROM sync_state WHERE id = 1`); err != nil {
		return 0, fmt.Errorf("failed to query sync state: %w", err)
	}

	return state.LastIndexedHeight, nil
}

// SaveBlocks persists a contiguous batch of blocks, their transactions
// and the resulting account activity, then advances the watermark to the
// last block in the batch. Everything happens in one transaction.
// Re-persisting already stored blocks is a no-op for every row touched,
// including account counters.
func (s *Store) SaveBlocks(ctx context.Context, batch []BlockWithTxs) error {
	if len(batch) == 0 {
		return nil
	}

	unlock := s.lockOperations()
	defer unlock()

	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	savedTxs := 0

	for _, item := range batch {
		if err := s.insertBlock(tx, item.Block); err != nil {
			return err
		}

		for _, transaction := range item.Txs {
			inserted, err := s.insertTransaction(tx, transaction)
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}

			savedTxs++

			if err := s.touchAccount(tx, transaction.From, 1, 0, item.Block); err != nil {
				return err
			}
			if transaction.To != "" {
				if err := s.touchAccount(tx, transaction.To, 0, 1, item.Block); err != nil {
					return err
				}
			}
		}
	}

	last := batch[len(batch)-1].Block.Height
	if err := setWatermark(tx, last); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	observeSave(len(batch), savedTxs, time.Since(start))

	s.log.Debugf("Stored %d blocks (%d transactions), watermark now %d", len(batch), savedTxs, last)

	return nil
}

func (s *Store) insertBlock(tx *sql.Tx, block *Block) error {
	const query = `
		INSERT INTO blocks (
			height, hash, prev_hash, timestamp, chain_id, proposer_address,
			tx_root, state_root, compute_root, gas_used, gas_limit,
			zk_state_proof_hash, zk_compute_proof_hash,
			pq_signature, pq_sig_scheme_id, tx_count, indexed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(height) DO NOTHING
	`

	_, err := tx.Exec(query,
		block.Height, block.Hash.Hex(), block.PrevHash, block.Timestamp,
		block.ChainID, block.Proposer, block.TxRoot, block.StateRoot,
		block.ComputeRoot, block.GasUsed, block.GasLimit,
		block.ZKStateProofHash, block.ZKComputeProofHash,
		block.PQSignature, block.PQSigSchemeID, block.TxCount, block.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert block %d: %w", block.Height, err)
	}

	return nil
}

// insertTransaction reports whether the row was actually inserted, so the
// caller can skip account bookkeeping for transactions seen before.
func (s *Store) insertTransaction(tx *sql.Tx, transaction *Transaction) (bool, error) {
	const query = `
		INSERT INTO transactions (
			hash, block_height, tx_index, tx_type, from_address, to_address,
			amount, fee, nonce, gas_price, gas_limit, gas_used,
			signature, pub_key, payload, timestamp
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`

	payload, err := encodePayload(transaction.Payload)
	if err != nil {
		return false, err
	}

	result, err := tx.Exec(query,
		transaction.Hash.Hex(), transaction.BlockHeight, transaction.TxIndex,
		string(transaction.TxType), transaction.From, transaction.To,
		common.FormatBigInt(transaction.Amount), common.FormatBigInt(transaction.Fee),
		transaction.Nonce, transaction.GasPrice, transaction.GasLimit, transaction.GasUsed,
		transaction.Signature, transaction.PubKey, payload, transaction.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction %s: %w", transaction.Hash.Hex(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

// touchAccount records transaction activity for an address. Existing rows
// keep their first_seen_height, balance and nonce; those two are owned by
// the on-demand refresh path.
func (s *Store) touchAccount(tx *sql.Tx, address string, sent, received int, block *Block) error {
	const query = `
		INSERT INTO accounts (
			address, balance, nonce, tx_count, tx_sent_count, tx_received_count,
			first_seen_height, last_seen_height, first_seen_at, last_seen_at, updated_at
		)
		VALUES (?, '0', 0, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			tx_count = tx_count + excluded.tx_count,
			tx_sent_count = tx_sent_count + excluded.tx_sent_count,
			tx_received_count = tx_received_count + excluded.tx_received_count,
			last_seen_height = MAX(last_seen_height, excluded.last_seen_height),
			last_seen_at = MAX(last_seen_at, excluded.last_seen_at),
			updated_at = excluded.updated_at
	`

	_, err := tx.Exec(query, address, sent+received, sent, received,
		block.Height, block.Height, block.Timestamp, block.Timestamp, block.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", address, err)
	}

	return nil
}

func encodePayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction payload: %w", err)
	}

	return string(encoded), nil
}

func setWatermark(tx *sql.Tx, height uint64) error {
	_, err := tx.Exec(
		`UPDATE sync_state SET last_indexed_height = ?, updated_at = ? WHERE id = 1`,
		height, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to update watermark: %w", err)
	}

	return nil
}

// BlockHashAt returns the stored hash for a height. The second return
// value is false when the height has not been indexed.
func (s *Store) BlockHashAt(ctx context.Context, height uint64) (ethcommon.Hash, bool, error) {
	var block Block
	err := meddler.QueryRow(s.db, &block, `SELECT * FROM blocks WHERE height = ?`, height)
	if errors.Is(err, sql.ErrNoRows) {
		return ethcommon.Hash{}, false, nil
	}
	if err != nil {
		return ethcommon.Hash{}, false, fmt.Errorf("failed to query block %d: %w", height, err)
	}

	return block.Hash, true, nil
}

// DeleteFrom removes all blocks at or above the given height and rewinds
// the watermark to height-1. Transactions go with their blocks through
// the cascade. Account counters are not rewound; balances and nonces are
// authoritative on the node and refreshed on read.
func (s *Store) DeleteFrom(ctx context.Context, height uint64) error {
	if height == 0 {
		return fmt.Errorf("cannot rewind to before genesis")
	}

	unlock := s.lockOperations()
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	// Transactions go first so the rewind is complete even when the
	// connection runs without foreign key enforcement.
	if _, err := tx.Exec(`DELETE FROM transactions WHERE block_height >= ?`, height); err != nil {
		return fmt.Errorf("failed to delete transactions from height %d: %w", height, err)
	}

	result, err := tx.Exec(`DELETE FROM blocks WHERE height >= ?`, height)
	if err != nil {
		return fmt.Errorf("failed to delete blocks from height %d: %w", height, err)
	}

	deleted, _ := result.RowsAffected()

	if err := setWatermark(tx, height-1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	ReorgRewinds.Inc()
	BlocksDeleted.Add(float64(deleted))

	s.log.Infof("Rewound chain from height %d, deleted %d blocks, watermark now %d", height, deleted, height-1)

	return nil
}
