// Package pgtest opens the PostgreSQL test database named by PG_CONN.
package pgtest

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/reform.v1"

	"github.com/metaversemultiverse/Payments-Gateway/storage"
)

// DB skips the test when PG_CONN is not set, otherwise it returns a
// migrated database with empty tables.
func DB(t *testing.T) *reform.DB {
	t.Helper()
	conn := os.Getenv("PG_CONN")
	if conn == "" {
		t.Skip("PG_CONN is not set")
	}
	sqlDB, err := storage.Open(conn, 0, 5, 5)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db := storage.NewDB(sqlDB)
	require.NoError(t, storage.RunMigrations(db))
	_, err = db.Exec(`TRUNCATE payments.accounts, payments.ext_orders RESTART IDENTITY`)
	require.NoError(t, err)
	return db
}
