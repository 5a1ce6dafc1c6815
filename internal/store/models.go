package store

import (
	"math/big"

	"github.com/computechain/explorer/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// Block is an indexed block row.
type Block struct {
	Height             uint64      `meddler:"height" json:"height"`
	Hash               common.Hash `meddler:"hash,hash" json:"hash"`
	PrevHash           string      `meddler:"prev_hash" json:"prev_hash"`
	Timestamp          int64       `meddler:"timestamp" json:"timestamp"`
	ChainID            string      `meddler:"chain_id" json:"chain_id,omitempty"`
	Proposer           string      `meddler:"proposer_address" json:"proposer"`
	TxRoot             string      `meddler:"tx_root" json:"tx_root"`
	StateRoot          string      `meddler:"state_root" json:"state_root"`
	ComputeRoot        string      `meddler:"compute_root" json:"compute_root,omitempty"`
	GasUsed            uint64      `meddler:"gas_used" json:"gas_used"`
	GasLimit           uint64      `meddler:"gas_limit" json:"gas_limit"`
	ZKStateProofHash   string      `meddler:"zk_state_proof_hash" json:"zk_state_proof_hash,omitempty"`
	ZKComputeProofHash string      `meddler:"zk_compute_proof_hash" json:"zk_compute_proof_hash,omitempty"`
	PQSignature        string      `meddler:"pq_signature" json:"pq_signature,omitempty"`
	PQSigSchemeID      uint8       `meddler:"pq_sig_scheme_id" json:"pq_sig_scheme_id"`
	TxCount            int         `meddler:"tx_count" json:"tx_count"`
	IndexedAt          int64       `meddler:"indexed_at" json:"indexed_at"`
}

// Transaction is an indexed transaction row. Amount and fee are stored
// as decimal text so 256-bit values round-trip exactly.
type Transaction struct {
	Hash        common.Hash    `meddler:"hash,hash" json:"hash"`
	BlockHeight uint64         `meddler:"block_height" json:"block_height"`
	TxIndex     int            `meddler:"tx_index" json:"tx_index"`
	TxType      types.TxType   `meddler:"tx_type" json:"tx_type"`
	From        string         `meddler:"from_address" json:"from_address"`
	To          string         `meddler:"to_address" json:"to_address,omitempty"`
	Amount      *big.Int       `meddler:"amount,bigint" json:"amount"`
	Fee         *big.Int       `meddler:"fee,bigint" json:"fee"`
	Nonce       uint64         `meddler:"nonce" json:"nonce"`
	GasPrice    uint64         `meddler:"gas_price" json:"gas_price"`
	GasLimit    uint64         `meddler:"gas_limit" json:"gas_limit"`
	GasUsed     uint64         `meddler:"gas_used" json:"gas_used"`
	Signature   string         `meddler:"signature" json:"signature,omitempty"`
	PubKey      string         `meddler:"pub_key" json:"pub_key,omitempty"`
	Payload     map[string]any `meddler:"payload,jsonmap" json:"payload,omitempty"`
	Timestamp   int64          `meddler:"timestamp" json:"timestamp"`
}

// Account is the aggregated activity ledger for an address. Balance and
// nonce are refreshed from the node on demand, the counters accumulate
// as blocks are indexed.
type Account struct {
	Address         string   `meddler:"address" json:"address"`
	Balance         *big.Int `meddler:"balance,bigint" json:"balance"`
	Nonce           uint64   `meddler:"nonce" json:"nonce"`
	TxCount         uint64   `meddler:"tx_count" json:"tx_count"`
	TxSent          uint64   `meddler:"tx_sent_count" json:"tx_sent_count"`
	TxReceived      uint64   `meddler:"tx_received_count" json:"tx_received_count"`
	FirstSeenHeight uint64   `meddler:"first_seen_height" json:"first_seen_height"`
	LastSeenHeight  uint64   `meddler:"last_seen_height" json:"last_seen_height"`
	FirstSeenAt     int64    `meddler:"first_seen_at" json:"first_seen_at"`
	LastSeenAt      int64    `meddler:"last_seen_at" json:"last_seen_at"`
	UpdatedAt       int64    `meddler:"updated_at" json:"updated_at"`
}

// SyncState is the single-row sync watermark.
type SyncState struct {
	ID                int64  `meddler:"id,pk"`
	LastIndexedHeight uint64 `meddler:"last_indexed_height"`
	UpdatedAt         int64  `meddler:"updated_at"`
}

// BlockWithTxs pairs a block with its transactions for atomic persistence.
type BlockWithTxs struct {
	Block *Block
	Txs   []*Transaction
}
