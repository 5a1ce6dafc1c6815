package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// BigInt is a big.Int that accepts both JSON numbers and decimal strings.
// Node amounts can exceed float64 precision, so they must never pass
// through a float on the way in.
type BigInt struct {
	big.Int
}

func NewBigInt(v int64) *BigInt {
	b := new(BigInt)
	b.SetInt64(v)

	return b
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		b.SetInt64(0)
		return nil
	}

	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("invalid integer value %q", s)
	}

	return nil
}

func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("0"), nil
	}

	return []byte(b.String()), nil
}

// ToBig returns the embedded big.Int, treating a nil receiver as zero.
func (b *BigInt) ToBig() *big.Int {
	if b == nil {
		return new(big.Int)
	}

	return &b.Int
}

// RawHeader is a block header as served by the node.
type RawHeader struct {
	Height             uint64 `json:"height"`
	PrevHash           string `json:"prev_hash"`
	Timestamp          int64  `json:"timestamp"`
	ChainID            string `json:"chain_id"`
	Proposer           string `json:"proposer_address"`
	TxRoot             string `json:"tx_root"`
	StateRoot          string `json:"state_root"`
	ComputeRoot        string `json:"compute_root"`
	GasUsed            uint64 `json:"gas_used"`
	GasLimit           uint64 `json:"gas_limit"`
	ZKStateProofHash   string `json:"zk_state_proof_hash"`
	ZKComputeProofHash string `json:"zk_compute_proof_hash"`
}

// RawTransaction is a transaction as served by the node, before typing
// and hashing.
type RawTransaction struct {
	TxType    string         `json:"tx_type"`
	From      string         `json:"from_address"`
	To        string         `json:"to_address"`
	Amount    *BigInt        `json:"amount"`
	Fee       *BigInt        `json:"fee"`
	Nonce     uint64         `json:"nonce"`
	GasPrice  uint64         `json:"gas_price"`
	GasLimit  uint64         `json:"gas_limit"`
	GasUsed   uint64         `json:"gas_used"`
	Signature string         `json:"signature"`
	PubKey    string         `json:"pub_key"`
	Payload   map[string]any `json:"payload"`
	Timestamp int64          `json:"timestamp"`
}

// RawBlock is the full block payload served by the node.
type RawBlock struct {
	Header        RawHeader        `json:"header"`
	Transactions  []RawTransaction `json:"txs"`
	PQSignature   string           `json:"pq_signature"`
	PQSigSchemeID uint8            `json:"pq_sig_scheme_id"`
}

// AccountState is the live balance and nonce reported by the node.
type AccountState struct {
	Address string  `json:"address"`
	Balance *BigInt `json:"balance"`
	Nonce   uint64  `json:"nonce"`
}

// Validator is a validator set entry reported by the node.
type Validator struct {
	Address     string  `json:"address"`
	Stake       *BigInt `json:"stake"`
	Delegated   *BigInt `json:"delegated"`
	Jailed      bool    `json:"jailed"`
	Active      bool    `json:"active"`
	Commission  uint64  `json:"commission"`
	LastSigned  uint64  `json:"last_signed_height"`
	MissedCount uint64  `json:"missed_blocks"`
}
