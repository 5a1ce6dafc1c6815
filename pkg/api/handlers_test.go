package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/computechain/explorer/internal/chain"
	"github.com/computechain/explorer/internal/db"
	"github.com/computechain/explorer/internal/logger"
	"github.com/computechain/explorer/internal/migrations"
	"github.com/computechain/explorer/internal/store"
	"github.com/computechain/explorer/internal/types"
	"github.com/computechain/explorer/pkg/config"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode is an in-memory NodeClient.
type fakeNode struct {
	height     uint64
	accounts   map[string]*chain.AccountState
	validators []chain.Validator
	err        error
}

func (f *fakeNode) CurrentHeight(ctx context.Context) (uint64, error) {
	return f.height, f.err
}

func (f *fakeNode) Account(ctx context.Context, address string) (*chain.AccountState, error) {
	if f.err != nil {
		return nil, f.err
	}
	state, ok := f.accounts[address]
	if !ok {
		return nil, chain.ErrNotFound
	}

	return state, nil
}

func (f *fakeNode) Validators(ctx context.Context) ([]chain.Validator, error) {
	return f.validators, f.err
}

func setupAPI(t *testing.T) (http.Handler, *store.Store, *fakeNode) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "api_test_*.db")
	require.NoError(t, err)
	tmpFile.Close()

	dbPath := tmpFile.Name()

	sqlDB, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)

	require.NoError(t, migrations.RunMigrations(dbPath))

	t.Cleanup(func() {
		sqlDB.Close()
		os.Remove(dbPath)
	})

	st := store.NewStore(sqlDB, logger.NewNopLogger(), &db.NoOpMaintenance{})
	node := &fakeNode{accounts: map[string]*chain.AccountState{}}

	cfg := &config.APIConfig{Enabled: true}
	cfg.ApplyDefaults()

	srv := NewServer(cfg, st, node, logger.NewNopLogger())

	return srv.server.Handler, st, node
}

func seedBlocks(t *testing.T, st *store.Store, n int) {
	t.Helper()

	batch := make([]store.BlockWithTxs, 0, n)
	for h := uint64(1); h <= uint64(n); h++ {
		batch = append(batch, store.BlockWithTxs{
			Block: &store.Block{
				Height:    h,
				Hash:      ethcommon.HexToHash(fmt.Sprintf("0x%064x", h)),
				PrevHash:  fmt.Sprintf("0x%064x", h-1),
				Timestamp: 1700000000 + int64(h)*2,
				Proposer:  "cc1proposer",
				TxCount:   1,
				IndexedAt: time.Now().Unix(),
			},
			Txs: []*store.Transaction{
				{
					Hash:        ethcommon.HexToHash(fmt.Sprintf("0x%063x1", h)),
					BlockHeight: h,
					TxIndex:     0,
					TxType:      types.TxTransfer,
					From:        "cc1sender",
					To:          "cc1receiver",
					Amount:      big.NewInt(int64(100 * h)),
					Fee:         big.NewInt(1),
					Nonce:       h,
					Timestamp:   1700000000 + int64(h)*2,
				},
			},
		})
	}

	require.NoError(t, st.SaveBlocks(context.Background(), batch))
}

func doRequest(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}

	return w, body
}

func TestHealthEndpoint(t *testing.T) {
	handler, st, node := setupAPI(t)
	seedBlocks(t, st, 5)
	node.height = 5

	w, body := doRequest(t, handler, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "ok", body["status"])

	sync := body["sync"].(map[string]any)
	assert.Equal(t, float64(5), sync["watermark_height"])
	assert.Equal(t, float64(5), sync["chain_height"])
	assert.Equal(t, true, sync["synced"])
}

func TestGetBlocksPagination(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 30)

	w, body := doRequest(t, handler, "/api/v1/blocks?limit=10&offset=5")
	require.Equal(t, http.StatusOK, w.Code)

	blocks := body["blocks"].([]any)
	require.Len(t, blocks, 10)

	first := blocks[0].(map[string]any)
	assert.Equal(t, float64(25), first["height"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(30), pagination["total"])
	assert.Equal(t, true, pagination["has_more"])
}

func TestGetBlocksDefaultPageSize(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 40)

	w, body := doRequest(t, handler, "/api/v1/blocks")
	require.Equal(t, http.StatusOK, w.Code)

	// Default page size is 25.
	assert.Len(t, body["blocks"].([]any), 25)
}

func TestGetBlocksRejectsOversizedLimit(t *testing.T) {
	handler, _, _ := setupAPI(t)

	w, _ := doRequest(t, handler, "/api/v1/blocks?limit=5000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBlockByHeightAndHash(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 3)

	w, body := doRequest(t, handler, "/api/v1/blocks/2")
	require.Equal(t, http.StatusOK, w.Code)

	block := body["block"].(map[string]any)
	assert.Equal(t, float64(2), block["height"])
	require.Len(t, body["transactions"].([]any), 1)

	hash := block["hash"].(string)
	w, body = doRequest(t, handler, "/api/v1/blocks/"+hash)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["block"].(map[string]any)["height"])
}

func TestGetBlockErrors(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 3)

	w, _ := doRequest(t, handler, "/api/v1/blocks/99")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, handler, "/api/v1/blocks/nonsense")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionsFilteredByType(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 6)

	w, body := doRequest(t, handler, "/api/v1/transactions?tx_type=TRANSFER")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["transactions"].([]any), 6)

	w, _ = doRequest(t, handler, "/api/v1/transactions?tx_type=TELEPORT")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionNotFound(t *testing.T) {
	handler, _, _ := setupAPI(t)

	w, _ := doRequest(t, handler, "/api/v1/transactions/0xdeadbeef")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAccountRefreshesFromNode(t *testing.T) {
	handler, st, node := setupAPI(t)
	seedBlocks(t, st, 2)

	balance := chain.NewBigInt(0)
	_, ok := balance.SetString("987654321098765432109876543210", 10)
	require.True(t, ok)

	node.accounts["cc1sender"] = &chain.AccountState{
		Address: "cc1sender",
		Balance: balance,
		Nonce:   42,
	}

	w, _ := doRequest(t, handler, "/api/v1/accounts/cc1sender")
	require.Equal(t, http.StatusOK, w.Code)

	var acct store.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acct))
	assert.Equal(t, "987654321098765432109876543210", acct.Balance.String())
	assert.Equal(t, uint64(42), acct.Nonce)
	assert.Equal(t, uint64(2), acct.TxSent)
}

func TestGetAccountNodeDownServesStored(t *testing.T) {
	handler, st, node := setupAPI(t)
	seedBlocks(t, st, 2)
	node.err = &chain.HTTPError{StatusCode: 503}

	w, body := doRequest(t, handler, "/api/v1/accounts/cc1sender")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["tx_sent_count"])
}

func TestGetAccountUnknown(t *testing.T) {
	handler, _, _ := setupAPI(t)

	w, _ := doRequest(t, handler, "/api/v1/accounts/cc1unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetValidators(t *testing.T) {
	handler, _, node := setupAPI(t)
	node.validators = []chain.Validator{
		{Address: "cc1val1", Stake: chain.NewBigInt(1000), Active: true},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/validators", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var validators []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validators))
	require.Len(t, validators, 1)
	assert.Equal(t, "cc1val1", validators[0]["address"])
}

func TestGetValidatorsNodeDown(t *testing.T) {
	handler, _, node := setupAPI(t)
	node.err = &chain.HTTPError{StatusCode: 503}

	w, _ := doRequest(t, handler, "/api/v1/validators")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetStats(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 10)

	w, body := doRequest(t, handler, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), body["block_count"])
	assert.Equal(t, float64(10), body["transaction_count"])
	assert.Equal(t, float64(2), body["account_count"])
	assert.Equal(t, float64(10), body["latest_height"])
}

func TestGetTxTypeCounts(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 4)

	w, body := doRequest(t, handler, "/api/v1/stats/tx-types")
	require.Equal(t, http.StatusOK, w.Code)

	counts := body["counts"].(map[string]any)
	assert.Equal(t, float64(4), counts["TRANSFER"])
}

func TestGetTPS(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 10)

	w, body := doRequest(t, handler, "/api/v1/stats/tps?window=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), body["window_minutes"])

	// Seeded blocks were indexed just now, so they all fall in the window.
	assert.Equal(t, float64(10), body["blocks"])
	assert.Equal(t, float64(10), body["txs"])

	w, _ = doRequest(t, handler, "/api/v1/stats/tps?window=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, handler, "/api/v1/stats/tps?window=20000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestBlock(t *testing.T) {
	handler, st, _ := setupAPI(t)

	w, _ := doRequest(t, handler, "/api/v1/blocks/latest")
	assert.Equal(t, http.StatusNotFound, w.Code)

	seedBlocks(t, st, 7)

	w, body := doRequest(t, handler, "/api/v1/blocks/latest")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), body["block"].(map[string]any)["height"])
	assert.Len(t, body["transactions"].([]any), 1)
}

func TestGetBlockTransactionList(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 3)

	w, body := doRequest(t, handler, "/api/v1/blocks/2/transactions")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["transactions"].([]any), 1)
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])

	w, _ = doRequest(t, handler, "/api/v1/blocks/99/transactions")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, handler, "/api/v1/blocks/nope/transactions")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRecentTransactions(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 20)

	// Default feed size is 10, newest first.
	w, body := doRequest(t, handler, "/api/v1/transactions/recent")
	require.Equal(t, http.StatusOK, w.Code)

	txs := body["transactions"].([]any)
	require.Len(t, txs, 10)
	assert.Equal(t, float64(20), txs[0].(map[string]any)["block_height"])

	w, body = doRequest(t, handler, "/api/v1/transactions/recent?limit=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["transactions"].([]any), 3)

	w, _ = doRequest(t, handler, "/api/v1/transactions/recent?limit=500")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTxTypes(t *testing.T) {
	handler, _, _ := setupAPI(t)

	w, body := doRequest(t, handler, "/api/v1/transactions/types")
	require.Equal(t, http.StatusOK, w.Code)

	txTypes := body["tx_types"].([]any)
	assert.Len(t, txTypes, len(types.AllTxTypes))
	assert.Contains(t, txTypes, "TRANSFER")
}

func TestGetAccountsSorted(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 5)

	w, body := doRequest(t, handler, "/api/v1/accounts?sort=tx_count")
	require.Equal(t, http.StatusOK, w.Code)

	accounts := body["accounts"].([]any)
	require.Len(t, accounts, 2)

	w, _ = doRequest(t, handler, "/api/v1/accounts?sort=shoe_size")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAccountsRefreshesBalances(t *testing.T) {
	handler, st, node := setupAPI(t)
	seedBlocks(t, st, 2)

	node.accounts["cc1sender"] = &chain.AccountState{
		Address: "cc1sender",
		Balance: chain.NewBigInt(5555),
		Nonce:   3,
	}

	w, body := doRequest(t, handler, "/api/v1/accounts")
	require.Equal(t, http.StatusOK, w.Code)

	for _, raw := range body["accounts"].([]any) {
		account := raw.(map[string]any)
		if account["address"] == "cc1sender" {
			assert.Equal(t, float64(5555), account["balance"])
			assert.Equal(t, float64(3), account["nonce"])
		}
	}
}

func TestGetAccountTransactions(t *testing.T) {
	handler, st, _ := setupAPI(t)
	seedBlocks(t, st, 6)

	w, body := doRequest(t, handler, "/api/v1/accounts/cc1sender/transactions?direction=sent")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["transactions"].([]any), 6)

	w, body = doRequest(t, handler, "/api/v1/accounts/cc1sender/transactions?direction=received")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["transactions"])

	w, _ = doRequest(t, handler, "/api/v1/accounts/cc1sender/transactions?direction=sideways")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
