package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/russross/meddler"
)

func init() {
	// Register custom meddler converter for free-form JSON payloads
	meddler.Register("jsonmap", JSONMapMeddler{})
}

// JSONMapMeddler converts between map[string]any and a JSON TEXT column.
// Used for transaction payloads, which have no fixed schema.
type JSONMapMeddler struct{}

func (j JSONMapMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(sql.NullString), nil
}

func (j JSONMapMeddler) PostRead(fieldAddr, scanTarget interface{}) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	ptr, ok := fieldAddr.(*map[string]any)
	if !ok {
		return fmt.Errorf("expected *map[string]any, got %T", fieldAddr)
	}

	if !ns.Valid || ns.String == "" {
		*ptr = map[string]any{}
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(ns.String), &m); err != nil {
		return fmt.Errorf("invalid JSON payload in database: %w", err)
	}

	*ptr = m
	return nil
}

func (j JSONMapMeddler) PreWrite(field interface{}) (saveValue interface{}, err error) {
	m, ok := field.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected map[string]any, got %T", field)
	}

	if m == nil {
		return "{}", nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON payload: %w", err)
	}

	return string(data), nil
}
