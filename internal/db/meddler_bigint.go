package db

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/russross/meddler"
)

func init() {
	// Register custom meddler converter for *big.Int
	meddler.Register("bigint", BigIntMeddler{})
}

// BigIntMeddler converts between *big.Int and a decimal TEXT column.
// Amounts and fees must survive values beyond uint64 (up to 256-bit),
// so they are never stored as SQLite integers.
type BigIntMeddler struct{}

func (b BigIntMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

func (b BigIntMeddler) PostRead(fieldAddr, scanTarget interface{}) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	ptr, ok := fieldAddr.(**big.Int)
	if !ok {
		return fmt.Errorf("expected **big.Int, got %T", fieldAddr)
	}

	if !ns.Valid || ns.String == "" {
		*ptr = new(big.Int)
		return nil
	}

	v, parsed := new(big.Int).SetString(ns.String, 10)
	if !parsed {
		return fmt.Errorf("invalid big integer value %q in database", ns.String)
	}

	*ptr = v
	return nil
}

func (b BigIntMeddler) PreWrite(field interface{}) (saveValue interface{}, err error) {
	v, ok := field.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected *big.Int, got %T", field)
	}

	if v == nil {
		return "0", nil
	}

	return v.String(), nil
}
