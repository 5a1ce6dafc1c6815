package migrations

import (
	_ "embed"

	"github.com/computechain/explorer/internal/db"
)

//go:embed 001_sync_state.sql
var mig001 string

//go:embed 002_blocks.sql
var mig002 string

//go:embed 003_transactions.sql
var mig003 string

//go:embed 004_accounts.sql
var mig004 string

func RunMigrations(dbPath string) error {
	migrations := []db.Migration{
		{
			ID:  "001_sync_state.sql",
			SQL: mig001,
		},
		{
			ID:  "002_blocks.sql",
			SQL: mig002,
		},
		{
			ID:  "003_transactions.sql",
			SQL: mig003,
		},
		{
			ID:  "004_accounts.sql",
			SQL: mig004,
		},
	}

	return db.RunMigrations(dbPath, migrations)
}
