package types

import "fmt"

// TxType represents the kind of a ComputeChain transaction.
// The set is closed: unknown tags coming from the node are rejected at
// decode time instead of being coerced to a default.
type TxType string

const (
	TxTransfer        TxType = "TRANSFER"
	TxStake           TxType = "STAKE"
	TxUnstake         TxType = "UNSTAKE"
	TxDelegate        TxType = "DELEGATE"
	TxUndelegate      TxType = "UNDELEGATE"
	TxUpdateValidator TxType = "UPDATE_VALIDATOR"
	TxUnjail          TxType = "UNJAIL"
	TxCompute         TxType = "COMPUTE"
	TxSubmitResult    TxType = "SUBMIT_RESULT"
)

// AllTxTypes lists every valid transaction type in a stable order.
var AllTxTypes = []TxType{
	TxTransfer,
	TxStake,
	TxUnstake,
	TxDelegate,
	TxUndelegate,
	TxUpdateValidator,
	TxUnjail,
	TxCompute,
	TxSubmitResult,
}

// String returns the string representation of TxType.
func (t TxType) String() string {
	return string(t)
}

// IsValid checks if the TxType value is valid.
func (t TxType) IsValid() bool {
	switch t {
	case TxTransfer, TxStake, TxUnstake, TxDelegate, TxUndelegate,
		TxUpdateValidator, TxUnjail, TxCompute, TxSubmitResult:
		return true
	default:
		return false
	}
}

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	t := TxType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
	return t, nil
}
