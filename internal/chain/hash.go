package chain

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// hashObject produces a digest that is stable across runs for the same
// logical content. encoding/json sorts map keys, which gives a canonical
// byte encoding without a hand-rolled serializer.
func hashObject(fields map[string]any) (common.Hash, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding hash preimage: %w", err)
	}

	return common.Hash(sha256.Sum256(encoded)), nil
}

// ComputeBlockHash derives the identity hash of a block from its header.
// Only consensus-bearing header fields participate, so a re-served block
// with identical content always maps to the same hash.
func ComputeBlockHash(header *RawHeader) (common.Hash, error) {
	return hashObject(map[string]any{
		"height":     header.Height,
		"prev_hash":  header.PrevHash,
		"timestamp":  header.Timestamp,
		"tx_root":    header.TxRoot,
		"state_root": header.StateRoot,
	})
}

// ComputeTxHash derives the identity hash of a transaction from its
// signed fields.
func ComputeTxHash(tx *RawTransaction) (common.Hash, error) {
	return hashObject(map[string]any{
		"tx_type":      tx.TxType,
		"from_address": tx.From,
		"to_address":   tx.To,
		"amount":       tx.Amount.ToBig(),
		"nonce":        tx.Nonce,
		"signature":    tx.Signature,
	})
}
