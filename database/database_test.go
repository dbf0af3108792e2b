package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAndMigrate(t *testing.T) {
	db, err := Initialize(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	// migrations are idempotent
	require.NoError(t, Migrate(db))

	_, err = db.Exec(`INSERT INTO ledger_entries (key, value) VALUES (?, ?)`, "committee:1", []byte("{}"))
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ledger_entries`).Scan(&count))
	assert.Equal(t, 1, count)
}
