package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/computechain/explorer/internal/chain"
	"github.com/computechain/explorer/internal/logger"
	"github.com/computechain/explorer/internal/store"
	"github.com/computechain/explorer/internal/types"
	"github.com/computechain/explorer/pkg/config"
)

const (
	// tpsDefaultWindowMinutes is the trailing window for throughput queries.
	tpsDefaultWindowMinutes = 60

	// recentTxDefaultLimit caps the recent transaction feed.
	recentTxDefaultLimit = 10
	recentTxMaxLimit     = 50

	// balanceRefreshConcurrency bounds parallel node lookups when a page
	// of accounts is refreshed.
	balanceRefreshConcurrency = 8
)

// Querier is the read access the API needs from the store.
type Querier interface {
	Watermark(ctx context.Context) (uint64, error)
	GetBlocks(ctx context.Context, limit, offset int) ([]*store.Block, uint64, error)
	GetLatestBlock(ctx context.Context) (*store.Block, error)
	GetBlockByHeight(ctx context.Context, height uint64) (*store.Block, error)
	GetBlockByHash(ctx context.Context, hash string) (*store.Block, error)
	GetBlockTransactions(ctx context.Context, height uint64) ([]*store.Transaction, error)
	GetBlockTransactionsPage(ctx context.Context, height uint64, limit, offset int) ([]*store.Transaction, uint64, error)
	GetTransactions(ctx context.Context, filter store.TxFilter, limit, offset int) ([]*store.Transaction, uint64, error)
	GetRecentTransactions(ctx context.Context, limit int) ([]*store.Transaction, error)
	GetTransactionByHash(ctx context.Context, hash string) (*store.Transaction, error)
	GetAccounts(ctx context.Context, sort store.AccountSort, limit, offset int) ([]*store.Account, uint64, error)
	GetAccount(ctx context.Context, address string) (*store.Account, error)
	GetAccountTransactions(ctx context.Context, address string, direction store.TxDirection, limit, offset int) ([]*store.Transaction, uint64, error)
	RefreshAccount(ctx context.Context, address string, balance *big.Int, nonce uint64) error
	Stats(ctx context.Context) (*store.ChainStats, error)
	TxTypeCounts(ctx context.Context) (map[string]uint64, error)
	TPS(ctx context.Context, window time.Duration) (*store.TPSStats, error)
}

// NodeClient is the live node access the API needs.
type NodeClient interface {
	CurrentHeight(ctx context.Context) (uint64, error)
	Account(ctx context.Context, address string) (*chain.AccountState, error)
	Validators(ctx context.Context) ([]chain.Validator, error)
}

// Compile-time checks against the real implementations.
var (
	_ Querier    = (*store.Store)(nil)
	_ NodeClient = (*chain.Client)(nil)
)

// Handler handles HTTP requests for the API.
type Handler struct {
	store  Querier
	node   NodeClient
	config *config.APIConfig
	log    *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(querier Querier, node NodeClient, cfg *config.APIConfig, log *logger.Logger) *Handler {
	return &Handler{
		store:  querier,
		node:   node,
		config: cfg,
		log:    log,
	}
}

// GetBlocks lists indexed blocks.
// @Summary List blocks
// @Description Get indexed blocks, newest first
// @Tags Blocks
// @Produce json
// @Param limit query int false "Maximum number of blocks to return"
// @Param offset query int false "Number of blocks to skip" default(0)
// @Success 200 {object} BlockListResponse "Page of blocks"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /blocks [get]
func (h *Handler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := h.parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	blocks, total, err := h.store.GetBlocks(r.Context(), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to query blocks: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query blocks")
		return
	}

	respondJSON(w, http.StatusOK, BlockListResponse{
		Blocks:     blocks,
		Pagination: paginate(total, limit, offset, len(blocks)),
	})
}

// GetBlock returns one block with its transactions.
// @Summary Get a block
// @Description Get a block by height or hash, including its transactions
// @Tags Blocks
// @Produce json
// @Param id path string true "Block height or 0x-prefixed hash"
// @Success 200 {object} BlockDetailResponse "Block with transactions"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Block not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /blocks/{id} [get]
func (h *Handler) GetBlock(w http.ResponseWriter, r *http.Request) {
	block, ok := h.lookupBlock(w, r)
	if !ok {
		return
	}

	txs, err := h.store.GetBlockTransactions(r.Context(), block.Height)
	if err != nil {
		h.log.Errorf("Failed to query block transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query block transactions")
		return
	}

	respondJSON(w, http.StatusOK, BlockDetailResponse{
		Block:        block,
		Transactions: txs,
	})
}

// GetLatestBlock returns the highest indexed block with its transactions.
// @Summary Get the latest block
// @Description Get the most recently indexed block, including its transactions
// @Tags Blocks
// @Produce json
// @Success 200 {object} BlockDetailResponse "Block with transactions"
// @Failure 404 {object} ErrorResponse "No blocks indexed yet"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /blocks/latest [get]
func (h *Handler) GetLatestBlock(w http.ResponseWriter, r *http.Request) {
	block, err := h.store.GetLatestBlock(r.Context())
	if errors.Is(err, store.ErrNoSuchBlock) {
		respondError(w, http.StatusNotFound, "no blocks indexed yet")
		return
	}
	if err != nil {
		h.log.Errorf("Failed to query latest block: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query latest block")
		return
	}

	txs, err := h.store.GetBlockTransactions(r.Context(), block.Height)
	if err != nil {
		h.log.Errorf("Failed to query block transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query block transactions")
		return
	}

	respondJSON(w, http.StatusOK, BlockDetailResponse{
		Block:        block,
		Transactions: txs,
	})
}

// GetBlockTransactionList pages through the transactions of one block.
// @Summary List block transactions
// @Description Get the transactions of a block in execution order
// @Tags Blocks
// @Produce json
// @Param height path integer true "Block height"
// @Param limit query int false "Maximum number of transactions to return"
// @Param offset query int false "Number of transactions to skip" default(0)
// @Success 200 {object} TransactionListResponse "Page of transactions"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Block not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /blocks/{height}/transactions [get]
func (h *Handler) GetBlockTransactionList(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseUint(r.PathValue("height"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "block height must be a non-negative integer")
		return
	}

	limit, offset, err := h.parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, total, err := h.store.GetBlockTransactionsPage(r.Context(), height, limit, offset)
	if errors.Is(err, store.ErrNoSuchBlock) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("block %d not found", height))
		return
	}
	if err != nil {
		h.log.Errorf("Failed to query block transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query block transactions")
		return
	}

	respondJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: txs,
		Pagination:   paginate(total, limit, offset, len(txs)),
	})
}

// GetTransactions lists indexed transactions.
// @Summary List transactions
// @Description Get indexed transactions, newest first, with optional filters
// @Tags Transactions
// @Produce json
// @Param address query string false "Filter by sender or recipient address"
// @Param tx_type query string false "Filter by transaction type"
// @Param block_height query integer false "Filter by block height"
// @Param limit query int false "Maximum number of transactions to return"
// @Param offset query int false "Number of transactions to skip" default(0)
// @Success 200 {object} TransactionListResponse "Page of transactions"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /transactions [get]
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := h.parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter, err := parseTxFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, total, err := h.store.GetTransactions(r.Context(), *filter, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to query transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query transactions")
		return
	}

	respondJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: txs,
		Pagination:   paginate(total, limit, offset, len(txs)),
	})
}

// GetTransaction returns one transaction by hash.
// @Summary Get a transaction
// @Description Get a transaction by its hash
// @Tags Transactions
// @Produce json
// @Param hash path string true "Transaction hash"
// @Success 200 {object} store.Transaction "Transaction"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /transactions/{hash} [get]
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")

	tx, err := h.store.GetTransactionByHash(r.Context(), hash)
	if errors.Is(err, store.ErrNoSuchTransaction) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("transaction %s not found", hash))
		return
	}
	if err != nil {
		h.log.Errorf("Failed to query transaction: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query transaction")
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

// GetRecentTransactions returns the most recently indexed transactions.
// @Summary Recent transactions
// @Description Get the most recently indexed transactions, newest first
// @Tags Transactions
// @Produce json
// @Param limit query int false "Maximum number of transactions to return" default(10)
// @Success 200 {object} RecentTransactionsResponse "Recent transactions"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /transactions/recent [get]
func (h *Handler) GetRecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := recentTxDefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > recentTxMaxLimit {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid limit: must be between 1 and %d", recentTxMaxLimit))
			return
		}
		limit = parsed
	}

	txs, err := h.store.GetRecentTransactions(r.Context(), limit)
	if err != nil {
		h.log.Errorf("Failed to query recent transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query recent transactions")
		return
	}

	respondJSON(w, http.StatusOK, RecentTransactionsResponse{Transactions: txs})
}

// GetTxTypes returns the known transaction types.
// @Summary List transaction types
// @Description Get every transaction type the explorer recognizes
// @Tags Transactions
// @Produce json
// @Success 200 {object} TxTypesResponse "Transaction types"
// @Router /transactions/types [get]
func (h *Handler) GetTxTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TxTypesResponse{TxTypes: types.AllTxTypes})
}

// GetAccounts lists indexed accounts.
// @Summary List accounts
// @Description Get indexed accounts. Balances for the returned page are refreshed from the node when it is reachable.
// @Tags Accounts
// @Produce json
// @Param sort query string false "Sort key: balance, tx_count or last_seen" default(last_seen)
// @Param limit query int false "Maximum number of accounts to return"
// @Param offset query int false "Number of accounts to skip" default(0)
// @Success 200 {object} AccountListResponse "Page of accounts"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts [get]
func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := h.parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sort := store.SortByLastSeen
	if sortStr := r.URL.Query().Get("sort"); sortStr != "" {
		switch store.AccountSort(sortStr) {
		case store.SortByBalance, store.SortByTxCount, store.SortByLastSeen:
			sort = store.AccountSort(sortStr)
		default:
			respondError(w, http.StatusBadRequest, "invalid sort: must be balance, tx_count or last_seen")
			return
		}
	}

	accounts, total, err := h.store.GetAccounts(r.Context(), sort, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to query accounts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query accounts")
		return
	}

	h.refreshBalances(r.Context(), accounts)

	respondJSON(w, http.StatusOK, AccountListResponse{
		Accounts:   accounts,
		Pagination: paginate(total, limit, offset, len(accounts)),
	})
}

// refreshBalances updates a page of accounts with live node balances.
// Lookups run in parallel and failures leave the stored values in place.
func (h *Handler) refreshBalances(ctx context.Context, accounts []*store.Account) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(balanceRefreshConcurrency)

	for _, account := range accounts {
		account := account
		group.Go(func() error {
			state, err := h.node.Account(groupCtx, account.Address)
			if err != nil {
				if !errors.Is(err, chain.ErrNotFound) {
					h.log.Debugf("Node balance lookup failed for %s: %v", account.Address, err)
				}
				return nil
			}

			account.Balance = state.Balance.ToBig()
			account.Nonce = state.Nonce

			if err := h.store.RefreshAccount(groupCtx, account.Address, account.Balance, account.Nonce); err != nil {
				h.log.Warnf("Failed to refresh account %s: %v", account.Address, err)
			}
			return nil
		})
	}

	_ = group.Wait()
}

// GetAccount returns one account, refreshing its balance from the node.
// @Summary Get an account
// @Description Get an account by address. The balance and nonce are refreshed from the node when it is reachable.
// @Tags Accounts
// @Produce json
// @Param address path string true "Account address"
// @Success 200 {object} store.Account "Account"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{address} [get]
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	// Balances and nonces are only authoritative on the node, so serve
	// reads with a fresh value when possible and fall back to the last
	// stored one when the node is down.
	if state, err := h.node.Account(r.Context(), address); err == nil {
		if err := h.store.RefreshAccount(r.Context(), address, state.Balance.ToBig(), state.Nonce); err != nil {
			h.log.Warnf("Failed to refresh account %s: %v", address, err)
		}
	} else if !errors.Is(err, chain.ErrNotFound) {
		h.log.Warnf("Node balance lookup failed for %s: %v", address, err)
	}

	account, err := h.store.GetAccount(r.Context(), address)
	if errors.Is(err, store.ErrNoSuchAccount) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("account %s not found", address))
		return
	}
	if err != nil {
		h.log.Errorf("Failed to query account: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query account")
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// GetAccountTransactions lists an account's transactions.
// @Summary List account transactions
// @Description Get the transactions of an address, newest first, optionally restricted to one direction
// @Tags Accounts
// @Produce json
// @Param address path string true "Account address"
// @Param direction query string false "Direction filter: sent, received or all" default(all)
// @Param limit query int false "Maximum number of transactions to return"
// @Param offset query int false "Number of transactions to skip" default(0)
// @Success 200 {object} TransactionListResponse "Page of transactions"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{address}/transactions [get]
func (h *Handler) GetAccountTransactions(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	limit, offset, err := h.parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	direction := store.DirectionAll
	switch dir := r.URL.Query().Get("direction"); dir {
	case "", "all":
	case string(store.DirectionSent):
		direction = store.DirectionSent
	case string(store.DirectionReceived):
		direction = store.DirectionReceived
	default:
		respondError(w, http.StatusBadRequest, "invalid direction: must be sent, received or all")
		return
	}

	txs, total, err := h.store.GetAccountTransactions(r.Context(), address, direction, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to query account transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query account transactions")
		return
	}

	respondJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: txs,
		Pagination:   paginate(total, limit, offset, len(txs)),
	})
}

// GetValidators returns the current validator set from the node.
// @Summary List validators
// @Description Get the current validator set as reported by the node
// @Tags Validators
// @Produce json
// @Success 200 {array} chain.Validator "Validator set"
// @Failure 502 {object} ErrorResponse "Node unavailable"
// @Router /validators [get]
func (h *Handler) GetValidators(w http.ResponseWriter, r *http.Request) {
	validators, err := h.node.Validators(r.Context())
	if err != nil {
		h.log.Errorf("Failed to query validators: %v", err)
		respondError(w, http.StatusBadGateway, "node unavailable")
		return
	}

	respondJSON(w, http.StatusOK, validators)
}

// GetStats returns aggregate chain statistics.
// @Summary Chain statistics
// @Description Get aggregate statistics over the indexed chain
// @Tags Stats
// @Produce json
// @Success 200 {object} store.ChainStats "Chain statistics"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.log.Errorf("Failed to query stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetTxTypeCounts returns per-type transaction counts.
// @Summary Transaction type distribution
// @Description Get the number of indexed transactions per type
// @Tags Stats
// @Produce json
// @Success 200 {object} TxTypeCountsResponse "Counts per transaction type"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats/tx-types [get]
func (h *Handler) GetTxTypeCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.TxTypeCounts(r.Context())
	if err != nil {
		h.log.Errorf("Failed to query transaction type counts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query transaction type counts")
		return
	}

	respondJSON(w, http.StatusOK, TxTypeCountsResponse{Counts: counts})
}

// GetTPS returns throughput over a trailing time window.
// @Summary Transactions per second
// @Description Get throughput over blocks indexed within a trailing time window
// @Tags Stats
// @Produce json
// @Param window query int false "Trailing window in minutes" default(60)
// @Success 200 {object} TPSResponse "Throughput"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats/tps [get]
func (h *Handler) GetTPS(w http.ResponseWriter, r *http.Request) {
	window := tpsDefaultWindowMinutes
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed < 1 || parsed > 1440 {
			respondError(w, http.StatusBadRequest, "invalid window: must be between 1 and 1440 minutes")
			return
		}
		window = parsed
	}

	stats, err := h.store.TPS(r.Context(), time.Duration(window)*time.Minute)
	if err != nil {
		h.log.Errorf("Failed to query tps: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query tps")
		return
	}

	respondJSON(w, http.StatusOK, TPSResponse{TPSStats: *stats, WindowMinutes: window})
}

// Health returns the health and sync status of the explorer.
// @Summary Health check
// @Description Check the health of the explorer and how far it lags the chain
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Explorer health"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	watermark, err := h.store.Watermark(r.Context())
	if err != nil {
		h.log.Errorf("Failed to read watermark: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to read sync state")
		return
	}

	// Node unavailability degrades the answer, it does not fail it.
	chainHeight, err := h.node.CurrentHeight(r.Context())
	if err != nil {
		h.log.Warnf("Node height lookup failed: %v", err)
		chainHeight = 0
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Sync: SyncStatus{
			WatermarkHeight: watermark,
			ChainHeight:     chainHeight,
			Synced:          chainHeight > 0 && watermark >= chainHeight,
		},
	})
}

// lookupBlock resolves the {id} path element as a height or a hash and
// writes the error response itself when the lookup fails.
func (h *Handler) lookupBlock(w http.ResponseWriter, r *http.Request) (*store.Block, bool) {
	id := r.PathValue("id")

	var (
		block *store.Block
		err   error
	)

	if strings.HasPrefix(id, "0x") {
		block, err = h.store.GetBlockByHash(r.Context(), id)
	} else {
		height, parseErr := strconv.ParseUint(id, 10, 64)
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "block id must be a height or a 0x-prefixed hash")
			return nil, false
		}
		block, err = h.store.GetBlockByHeight(r.Context(), height)
	}

	if errors.Is(err, store.ErrNoSuchBlock) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("block %s not found", id))
		return nil, false
	}
	if err != nil {
		h.log.Errorf("Failed to query block: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query block")
		return nil, false
	}

	return block, true
}

// parsePagination reads limit and offset, applying the configured
// defaults and caps.
func (h *Handler) parsePagination(r *http.Request) (limit, offset int, err error) {
	limit = h.config.DefaultPageSize

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > h.config.MaxPageSize {
			return 0, 0, fmt.Errorf("invalid limit: must be between 1 and %d", h.config.MaxPageSize)
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset: must be non-negative")
		}
	}

	return limit, offset, nil
}

// parseTxFilter reads the transaction listing filters.
func parseTxFilter(r *http.Request) (*store.TxFilter, error) {
	filter := &store.TxFilter{
		Address: r.URL.Query().Get("address"),
	}

	if txType := r.URL.Query().Get("tx_type"); txType != "" {
		parsed, err := types.ParseTxType(strings.ToUpper(txType))
		if err != nil {
			return nil, err
		}
		filter.TxType = parsed
	}

	if heightStr := r.URL.Query().Get("block_height"); heightStr != "" {
		height, err := strconv.ParseUint(heightStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid block_height")
		}
		filter.BlockHeight = &height
	}

	return filter, nil
}

func paginate(total uint64, limit, offset, returned int) PaginationResult {
	return PaginationResult{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: uint64(offset+returned) < total,
	}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode JSON first to catch any errors before writing status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	// Only write status after successful encoding
	w.WriteHeader(status)

	if _, err := w.Write(encoded); err != nil {
		// Headers already sent, nothing left to do
		return
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}
