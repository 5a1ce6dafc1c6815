package api

import (
	"time"

	"github.com/computechain/explorer/internal/store"
	"github.com/computechain/explorer/internal/types"
)

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Total   uint64 `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"has_more"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// BlockListResponse is a page of blocks.
type BlockListResponse struct {
	Blocks     []*store.Block   `json:"blocks"`
	Pagination PaginationResult `json:"pagination"`
}

// TransactionListResponse is a page of transactions.
type TransactionListResponse struct {
	Transactions []*store.Transaction `json:"transactions"`
	Pagination   PaginationResult     `json:"pagination"`
}

// AccountListResponse is a page of accounts.
type AccountListResponse struct {
	Accounts   []*store.Account `json:"accounts"`
	Pagination PaginationResult `json:"pagination"`
}

// BlockDetailResponse is a block together with its transactions.
type BlockDetailResponse struct {
	Block        *store.Block         `json:"block"`
	Transactions []*store.Transaction `json:"transactions"`
}

// SyncStatus describes how far indexing lags the chain.
type SyncStatus struct {
	WatermarkHeight uint64 `json:"watermark_height"`
	ChainHeight     uint64 `json:"chain_height"`
	Synced          bool   `json:"synced"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Sync      SyncStatus `json:"sync"`
}

// TxTypeCountsResponse maps transaction types to indexed counts.
type TxTypeCountsResponse struct {
	Counts map[string]uint64 `json:"counts"`
}

// TxTypesResponse lists the recognized transaction types.
type TxTypesResponse struct {
	TxTypes []types.TxType `json:"tx_types"`
}

// RecentTransactionsResponse is the latest transaction feed.
type RecentTransactionsResponse struct {
	Transactions []*store.Transaction `json:"transactions"`
}

// TPSResponse reports throughput over a trailing time window.
type TPSResponse struct {
	store.TPSStats
	WindowMinutes int `json:"window_minutes"`
}
