package store

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/computechain/explorer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChain(t *testing.T, s *Store, heights int) {
	t.Helper()

	blocks := make([]*BlockWithTxs, 0, heights)
	for h := uint64(1); h <= uint64(heights); h++ {
		item := &BlockWithTxs{Block: testBlock(h)}
		item.Txs = []*Transaction{testTransaction(h, 0, "cc1a", "cc1b")}

		if h%2 == 0 {
			stake := testTransaction(h, 1, "cc1b", "")
			stake.TxType = types.TxStake
			item.Txs = append(item.Txs, stake)
		}

		blocks = append(blocks, item)
	}

	require.NoError(t, s.SaveBlocks(context.Background(), batchOf(blocks...)))
}

func TestGetBlocksPagination(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 30)

	page, total, err := s.GetBlocks(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), total)
	require.Len(t, page, 10)

	// Newest first.
	assert.Equal(t, uint64(30), page[0].Height)
	assert.Equal(t, uint64(21), page[9].Height)

	page, _, err = s.GetBlocks(context.Background(), 10, 25)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, uint64(5), page[0].Height)
}

func TestGetTransactionsFilters(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 10)

	ctx := context.Background()

	// By address, sender or recipient.
	_, total, err := s.GetTransactions(ctx, TxFilter{Address: "cc1b"}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), total)

	// By type.
	txs, total, err := s.GetTransactions(ctx, TxFilter{TxType: types.TxStake}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	for _, tx := range txs {
		assert.Equal(t, types.TxStake, tx.TxType)
	}

	// By block.
	height := uint64(4)
	_, total, err = s.GetTransactions(ctx, TxFilter{BlockHeight: &height}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)

	// Combined.
	_, total, err = s.GetTransactions(ctx, TxFilter{Address: "cc1b", TxType: types.TxStake}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
}

func TestGetBlockTransactionsOrder(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 4)

	txs, err := s.GetBlockTransactions(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 0, txs[0].TxIndex)
	assert.Equal(t, 1, txs[1].TxIndex)
}

func TestGetBlockByHash(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 3)

	block, err := s.GetBlockByHash(context.Background(), testBlock(2).Hash.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), block.Height)

	_, err = s.GetBlockByHash(context.Background(), "0xdeadbeef")
	assert.ErrorIs(t, err, ErrNoSuchBlock)
}

func TestStats(t *testing.T) {
	s := setupTestStore(t)

	// Empty store reports zeros rather than failing.
	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.BlockCount)
	assert.Equal(t, uint64(0), stats.LatestHeight)

	seedChain(t, s, 20)

	stats, err = s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(20), stats.BlockCount)
	assert.Equal(t, uint64(30), stats.TransactionCount)
	assert.Equal(t, uint64(2), stats.AccountCount)
	assert.Equal(t, uint64(20), stats.LatestHeight)

	// Seed blocks are 2 seconds apart.
	assert.InDelta(t, 2.0, stats.AvgBlockTime, 0.01)
}

func TestTxTypeCounts(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 10)

	counts, err := s.TxTypeCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), counts[string(types.TxTransfer)])
	assert.Equal(t, uint64(5), counts[string(types.TxStake)])
}

func TestGetLatestBlock(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetLatestBlock(context.Background())
	assert.ErrorIs(t, err, ErrNoSuchBlock)

	seedChain(t, s, 5)

	block, err := s.GetLatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), block.Height)
}

func TestGetBlockTransactionsPage(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 4)

	ctx := context.Background()

	// Block 4 has a transfer and a stake.
	txs, total, err := s.GetBlockTransactionsPage(ctx, 4, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, txs, 1)
	assert.Equal(t, 0, txs[0].TxIndex)

	txs, _, err = s.GetBlockTransactionsPage(ctx, 4, 1, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 1, txs[0].TxIndex)

	// Unindexed heights are distinguishable from empty blocks.
	_, _, err = s.GetBlockTransactionsPage(ctx, 99, 10, 0)
	assert.ErrorIs(t, err, ErrNoSuchBlock)
}

func TestGetRecentTransactions(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 6)

	txs, err := s.GetRecentTransactions(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Newest first, later indexes before earlier ones in the same block.
	assert.Equal(t, uint64(6), txs[0].BlockHeight)
	assert.Equal(t, 1, txs[0].TxIndex)
	assert.Equal(t, uint64(6), txs[1].BlockHeight)
	assert.Equal(t, 0, txs[1].TxIndex)
	assert.Equal(t, uint64(5), txs[2].BlockHeight)
}

func TestGetAccountTransactionsDirection(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 10)

	ctx := context.Background()

	// cc1b receives the transfer in every block and sends the stake in
	// even ones.
	_, total, err := s.GetAccountTransactions(ctx, "cc1b", DirectionAll, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), total)

	sent, total, err := s.GetAccountTransactions(ctx, "cc1b", DirectionSent, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	for _, tx := range sent {
		assert.Equal(t, "cc1b", tx.From)
	}

	_, total, err = s.GetAccountTransactions(ctx, "cc1b", DirectionReceived, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), total)
}

func TestGetAccountsSorting(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	seedChain(t, s, 4)

	// A short balance that is numerically larger than a longer digit
	// count would suggest lexicographically.
	bigBalance, ok := new(big.Int).SetString("100000000000000000000", 10)
	require.True(t, ok)
	require.NoError(t, s.RefreshAccount(ctx, "cc1a", big.NewInt(999), 1))
	require.NoError(t, s.RefreshAccount(ctx, "cc1b", bigBalance, 1))

	accounts, total, err := s.GetAccounts(ctx, SortByBalance, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, accounts, 2)
	assert.Equal(t, "cc1b", accounts[0].Address)
	assert.Equal(t, "cc1a", accounts[1].Address)

	accounts, _, err = s.GetAccounts(ctx, SortByTxCount, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "cc1b", accounts[0].Address)

	accounts, _, err = s.GetAccounts(ctx, SortByLastSeen, 10, 0)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}

func TestTPS(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// No blocks yet.
	stats, err := s.TPS(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, stats.Blocks)
	assert.Zero(t, stats.AvgTPS)

	// 11 blocks indexed just now, spanning 20 seconds of chain time,
	// carrying 2 txs each.
	now := time.Now().Unix()
	blocks := make([]*BlockWithTxs, 0, 11)
	for h := uint64(1); h <= 11; h++ {
		block := testBlock(h)
		block.IndexedAt = now
		blocks = append(blocks, &BlockWithTxs{
			Block: block,
			Txs: []*Transaction{
				testTransaction(h, 0, "cc1a", "cc1b"),
				testTransaction(h, 1, "cc1b", "cc1a"),
			},
		})
	}
	require.NoError(t, s.SaveBlocks(ctx, batchOf(blocks...)))

	stats, err = s.TPS(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 11, stats.Blocks)
	assert.Equal(t, int64(22), stats.Txs)
	assert.InDelta(t, 22.0/20.0, stats.AvgTPS, 0.01)
	assert.InDelta(t, 2.0, stats.AvgBlockTime, 0.01)

	// Current throughput covers the last 10 blocks: 20 txs over 18 seconds.
	assert.InDelta(t, 20.0/18.0, stats.CurrentTPS, 0.01)
}

func TestTPSWindowExcludesStaleBlocks(t *testing.T) {
	s := setupTestStore(t)
	seedChain(t, s, 11)

	// Seed blocks carry an indexed_at far outside the window.
	stats, err := s.TPS(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, stats.Blocks)
	assert.Zero(t, stats.AvgTPS)
}
