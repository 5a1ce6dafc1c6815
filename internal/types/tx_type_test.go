package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTxType(t *testing.T) {
	for _, txType := range AllTxTypes {
		parsed, err := ParseTxType(txType.String())
		require.NoError(t, err)
		assert.Equal(t, txType, parsed)
	}
}

func TestParseTxType_Unknown(t *testing.T) {
	for _, s := range []string{"", "transfer", "MINT", "TRANSFER "} {
		_, err := ParseTxType(s)
		require.Error(t, err, "input %q", s)
	}
}

func TestTxType_IsValid(t *testing.T) {
	assert.True(t, TxCompute.IsValid())
	assert.False(t, TxType("BURN").IsValid())
}
