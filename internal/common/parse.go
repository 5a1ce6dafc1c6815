package common

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseBigInt converts a decimal string into a big.Int. Empty strings parse
// as zero, which is how the node reports unset amounts.
func ParseBigInt(s string) (*big.Int, error) {
	if strings.TrimSpace(s) == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer value %q", s)
	}
	return v, nil
}

// FormatBigInt renders a big.Int as a plain decimal string.
// Nil is rendered as "0" so API responses never carry nulls for amounts.
func FormatBigInt(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
