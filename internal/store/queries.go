package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/computechain/explorer/internal/common"
	"github.com/computechain/explorer/internal/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

var (
	// ErrNoSuchTransaction is returned by transaction lookups that match nothing.
	ErrNoSuchTransaction = errors.New("transaction not indexed")

	// ErrNoSuchAccount is returned by account lookups that match nothing.
	ErrNoSuchAccount = errors.New("account not indexed")
)

// TxFilter narrows transaction listings. Zero values mean "no filter".
type TxFilter struct {
	// Address matches transactions where the address is sender or recipient.
	Address string

	// TxType restricts results to a single transaction type.
	TxType types.TxType

	// BlockHeight restricts results to a single block.
	BlockHeight *uint64
}

// AccountSort selects the ordering of account listings.
type AccountSort string

const (
	SortByBalance  AccountSort = "balance"
	SortByTxCount  AccountSort = "tx_count"
	SortByLastSeen AccountSort = "last_seen"
)

// TxDirection filters account transaction listings.
type TxDirection string

const (
	DirectionAll      TxDirection = ""
	DirectionSent     TxDirection = "sent"
	DirectionReceived TxDirection = "received"
)

// ChainStats is an aggregate snapshot of the indexed chain.
type ChainStats struct {
	BlockCount       uint64   `json:"block_count"`
	TransactionCount uint64   `json:"transaction_count"`
	AccountCount     uint64   `json:"account_count"`
	LatestHeight     uint64   `json:"latest_height"`
	LatestTimestamp  int64    `json:"latest_timestamp"`
	AvgBlockTime     float64  `json:"avg_block_time"`
	TotalTransferred *big.Int `json:"total_transferred"`
	TotalFees        *big.Int `json:"total_fees"`
	IndexedHeight    uint64   `json:"indexed_height"`
	LastIndexedAt    int64    `json:"last_indexed_at"`
}

// TPSStats aggregates throughput over recently indexed blocks.
type TPSStats struct {
	// CurrentTPS is measured over the last 10 blocks of the window.
	CurrentTPS float64 `json:"current_tps"`

	// AvgTPS is measured over the whole window.
	AvgTPS float64 `json:"avg_tps"`

	// AvgBlockTime is the mean seconds between consecutive blocks.
	AvgBlockTime float64 `json:"avg_block_time"`

	Blocks int   `json:"blocks"`
	Txs    int64 `json:"txs"`
}

// GetBlocks lists indexed blocks newest first.
func (s *Store) GetBlocks(ctx context.Context, limit, offset int) ([]*Block, uint64, error) {
	total, err := s.count(`SELECT COUNT(*) FROM blocks`)
	if err != nil {
		return nil, 0, err
	}

	var blocks []*Block
	err = meddler.QueryAll(s.db, &blocks,
		`SELECT * FROM blocks ORDER BY height DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query blocks: %w", err)
	}

	return blocks, total, nil
}

// GetLatestBlock returns the highest indexed block.
func (s *Store) GetLatestBlock(ctx context.Context) (*Block, error) {
	var block Block
	err := meddler.QueryRow(s.db, &block, `SELECT * FROM blocks ORDER BY height DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSuchBlock
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest block: %w", err)
	}

	return &block, nil
}

// GetBlockByHeight returns the block at the given height.
func (s *Store) GetBlockByHeight(ctx context.Context, height uint64) (*Block, error) {
	var block Block
	err := meddler.QueryRow(s.db, &block, `SELECT * FROM blocks WHERE height = ?`, height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSuchBlock
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query block %d: %w", height, err)
	}

	return &block, nil
}

// GetBlockByHash returns the block with the given hash.
func (s *Store) GetBlockByHash(ctx context.Context, hash string) (*Block, error) {
	var block Block
	err := meddler.QueryRow(s.db, &block,
		`SELECT * FROM blocks WHERE hash = ?`, ethcommon.HexToHash(hash).Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSuchBlock
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query block %s: %w", hash, err)
	}

	return &block, nil
}

// GetTransactions lists transactions newest first, optionally filtered.
func (s *Store) GetTransactions(ctx context.Context, filter TxFilter, limit, offset int) ([]*Transaction, uint64, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.Address != "" {
		where += " AND (from_address = ? OR to_address = ?)"
		args = append(args, filter.Address, filter.Address)
	}
	if filter.TxType != "" {
		where += " AND tx_type = ?"
		args = append(args, string(filter.TxType))
	}
	if filter.BlockHeight != nil {
		where += " AND block_height = ?"
		args = append(args, *filter.BlockHeight)
	}

	total, err := s.count(`SELECT COUNT(*) FROM transactions`+where, args...)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM transactions` + where +
		` ORDER BY block_height DESC, tx_index ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var txs []*Transaction
	if err := meddler.QueryAll(s.db, &txs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}

	return txs, total, nil
}

// GetBlockTransactions lists the transactions of one block in order.
func (s *Store) GetBlockTransactions(ctx context.Context, height uint64) ([]*Transaction, error) {
	var txs []*Transaction
	err := meddler.QueryAll(s.db, &txs,
		`SELECT * FROM transactions WHERE block_height = ? ORDER BY tx_index ASC`, height)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions of block %d: %w", height, err)
	}

	return txs, nil
}

// GetBlockTransactionsPage pages through the transactions of one block.
// Returns ErrNoSuchBlock when the block has not been indexed.
func (s *Store) GetBlockTransactionsPage(ctx context.Context, height uint64, limit, offset int) ([]*Transaction, uint64, error) {
	if _, err := s.GetBlockByHeight(ctx, height); err != nil {
		return nil, 0, err
	}

	total, err := s.count(`SELECT COUNT(*) FROM transactions WHERE block_height = ?`, height)
	if err != nil {
		return nil, 0, err
	}

	var txs []*Transaction
	err = meddler.QueryAll(s.db, &txs,
		`SELECT * FROM transactions WHERE block_height = ? ORDER BY tx_index ASC LIMIT ? OFFSET ?`,
		height, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions of block %d: %w", height, err)
	}

	return txs, total, nil
}

// GetRecentTransactions returns the most recently indexed transactions.
func (s *Store) GetRecentTransactions(ctx context.Context, limit int) ([]*Transaction, error) {
	var txs []*Transaction
	err := meddler.QueryAll(s.db, &txs,
		`SELECT * FROM transactions ORDER BY block_height DESC, tx_index DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}

	return txs, nil
}

// GetAccountTransactions lists an address's transactions newest first,
// optionally restricted to one direction.
func (s *Store) GetAccountTransactions(ctx context.Context, address string, direction TxDirection, limit, offset int) ([]*Transaction, uint64, error) {
	var where string
	var args []any

	switch direction {
	case DirectionSent:
		where = ` WHERE from_address = ?`
		args = []any{address}
	case DirectionReceived:
		where = ` WHERE to_address = ?`
		args = []any{address}
	default:
		where = ` WHERE (from_address = ? OR to_address = ?)`
		args = []any{address, address}
	}

	total, err := s.count(`SELECT COUNT(*) FROM transactions`+where, args...)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM transactions` + where +
		` ORDER BY block_height DESC, tx_index DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var txs []*Transaction
	if err := meddler.QueryAll(s.db, &txs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions of account %s: %w", address, err)
	}

	return txs, total, nil
}

// GetTransactionByHash returns the transaction with the given hash.
func (s *Store) GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var transaction Transaction
	err := meddler.QueryRow(s.db, &transaction,
		`SELECT * FROM transactions WHERE hash = ?`, ethcommon.HexToHash(hash).Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSuchTransaction
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction %s: %w", hash, err)
	}

	return &transaction, nil
}

// GetAccounts lists accounts ordered by the chosen sort key, descending.
func (s *Store) GetAccounts(ctx context.Context, sort AccountSort, limit, offset int) ([]*Account, uint64, error) {
	total, err := s.count(`SELECT COUNT(*) FROM accounts`)
	if err != nil {
		return nil, 0, err
	}

	// Balances are decimal TEXT without leading zeros, so length-then-lex
	// ordering compares them numerically.
	var order string
	switch sort {
	case SortByBalance:
		order = `LENGTH(balance) DESC, balance DESC`
	case SortByTxCount:
		order = `tx_count DESC`
	default:
		order = `last_seen_height DESC`
	}

	var accounts []*Account
	err = meddler.QueryAll(s.db, &accounts,
		`SELECT * FROM accounts ORDER BY `+order+`, address ASC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query accounts: %w", err)
	}

	return accounts, total, nil
}

// GetAccount returns the account row for an address.
func (s *Store) GetAccount(ctx context.Context, address string) (*Account, error) {
	var account Account
	err := meddler.QueryRow(s.db, &account, `SELECT * FROM accounts WHERE address = ?`, address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSuchAccount
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account %s: %w", address, err)
	}

	return &account, nil
}

// RefreshAccount writes the node-reported balance and nonce for an
// address, creating the row if indexing has not seen it yet. Transaction
// counters are recomputed from the indexed rows at the same time, so any
// drift left by a rewind heals on the next read.
func (s *Store) RefreshAccount(ctx context.Context, address string, balance *big.Int, nonce uint64) error {
	sent, err := s.count(`SELECT COUNT(*) FROM transactions WHERE from_address = ?`, address)
	if err != nil {
		return err
	}
	received, err := s.count(`SELECT COUNT(*) FROM transactions WHERE to_address = ?`, address)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO accounts (
			address, balance, nonce, tx_count, tx_sent_count, tx_received_count,
			first_seen_height, last_seen_height, first_seen_at, last_seen_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, 0, ?)
		ON CONFLICT(address) DO UPDATE SET
			balance = excluded.balance,
			nonce = excluded.nonce,
			tx_count = excluded.tx_count,
			tx_sent_count = excluded.tx_sent_count,
			tx_received_count = excluded.tx_received_count,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query, address, common.FormatBigInt(balance), nonce,
		sent+received, sent, received, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to refresh account %s: %w", address, err)
	}

	return nil
}

// Stats returns an aggregate snapshot of the indexed chain. Average block
// time is derived from the most recent 100 blocks.
func (s *Store) Stats(ctx context.Context) (*ChainStats, error) {
	stats := &ChainStats{}

	var err error
	if stats.BlockCount, err = s.count(`SELECT COUNT(*) FROM blocks`); err != nil {
		return nil, err
	}
	if stats.TransactionCount, err = s.count(`SELECT COUNT(*) FROM transactions`); err != nil {
		return nil, err
	}
	if stats.AccountCount, err = s.count(`SELECT COUNT(*) FROM accounts`); err != nil {
		return nil, err
	}

	if stats.TotalTransferred, err = s.sumDecimalColumn(ctx,
		`SELECT amount FROM transactions WHERE tx_type = ?`, string(types.TxTransfer)); err != nil {
		return nil, err
	}
	if stats.TotalFees, err = s.sumDecimalColumn(ctx, `SELECT fee FROM transactions`); err != nil {
		return nil, err
	}

	var state SyncState
	if err := meddler.QueryRow(s.db, &state, `SELECT * FROM sync_state WHERE id = 1`); err != nil {
		return nil, fmt.Errorf("failed to query sync state: %w", err)
	}
	stats.IndexedHeight = state.LastIndexedHeight
	stats.LastIndexedAt = state.UpdatedAt

	var latest Block
	err = meddler.QueryRow(s.db, &latest, `SELECT * FROM blocks ORDER BY height DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest block: %w", err)
	}

	stats.LatestHeight = latest.Height
	stats.LatestTimestamp = latest.Timestamp

	const window = 100

	row := s.db.QueryRow(`
		SELECT MIN(timestamp), MAX(timestamp), COUNT(*)
		FROM (SELECT timestamp FROM blocks ORDER BY height DESC LIMIT ?)
	`, window)

	var minTS, maxTS sql.NullInt64
	var n int
	if err := row.Scan(&minTS, &maxTS, &n); err != nil {
		return nil, fmt.Errorf("failed to query block time window: %w", err)
	}

	if n > 1 && maxTS.Int64 > minTS.Int64 {
		stats.AvgBlockTime = float64(maxTS.Int64-minTS.Int64) / float64(n-1)
	}

	return stats, nil
}

// TxTypeCounts returns the number of indexed transactions per type.
func (s *Store) TxTypeCounts(ctx context.Context) (map[string]uint64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tx_type, COUNT(*) FROM transactions GROUP BY tx_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction type counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var txType string
		var count uint64
		if err := rows.Scan(&txType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan transaction type count: %w", err)
		}
		counts[txType] = count
	}

	return counts, rows.Err()
}

// TPS aggregates throughput over blocks indexed within the given trailing
// window. Fewer than two blocks in the window yields all-zero stats.
func (s *Store) TPS(ctx context.Context, window time.Duration) (*TPSStats, error) {
	cutoff := time.Now().Add(-window).Unix()

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, tx_count FROM blocks WHERE indexed_at >= ? ORDER BY height ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query tps window: %w", err)
	}
	defer rows.Close()

	var timestamps []int64
	var txCounts []int64
	for rows.Next() {
		var ts, n int64
		if err := rows.Scan(&ts, &n); err != nil {
			return nil, fmt.Errorf("failed to scan tps row: %w", err)
		}
		timestamps = append(timestamps, ts)
		txCounts = append(txCounts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tps window: %w", err)
	}

	stats := &TPSStats{Blocks: len(timestamps)}
	if len(timestamps) < 2 {
		return stats, nil
	}

	for _, n := range txCounts {
		stats.Txs += n
	}

	span := timestamps[len(timestamps)-1] - timestamps[0]
	if span > 0 {
		stats.AvgTPS = float64(stats.Txs) / float64(span)
	}
	stats.AvgBlockTime = float64(span) / float64(len(timestamps)-1)

	// Current throughput over the most recent 10 blocks.
	recent := 10
	if len(timestamps) < recent {
		recent = len(timestamps)
	}
	recentSpan := timestamps[len(timestamps)-1] - timestamps[len(timestamps)-recent]
	if recentSpan > 0 {
		var recentTxs int64
		for _, n := range txCounts[len(txCounts)-recent:] {
			recentTxs += n
		}
		stats.CurrentTPS = float64(recentTxs) / float64(recentSpan)
	}

	return stats, nil
}

// sumDecimalColumn sums a decimal TEXT column in Go so values past 64 bits
// keep full precision.
func (s *Store) sumDecimalColumn(ctx context.Context, query string, args ...any) (*big.Int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column sum: %w", err)
	}
	defer rows.Close()

	total := new(big.Int)
	value := new(big.Int)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan column value: %w", err)
		}
		if _, ok := value.SetString(text, 10); !ok {
			return nil, fmt.Errorf("invalid decimal value %q", text)
		}
		total.Add(total, value)
	}

	return total, rows.Err()
}

func (s *Store) count(query string, args ...any) (uint64, error) {
	var total uint64
	if err := s.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}

	return total, nil
}
