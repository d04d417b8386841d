package chart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/reform.v1/parse"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/internal/pgtest"
)

func TestPGSource(t *testing.T) {
	db := pgtest.DB(t)
	s := &PGSource{DB: db}

	require.NoError(t, s.Import([]payments.Account{
		{Code: "1000", Metadata: map[string]interface{}{"category": "cards"}},
		{Code: "2000"},
	}))
	require.Error(t, Insert(db.Querier, payments.Account{Code: "2000"}))

	// a duplicate rolls back the whole import
	err := s.Import([]payments.Account{{Code: "5000"}, {Code: "1000"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "account 1000")
	rows, err := db.SelectAllFrom(AccountRecordTable, "WHERE code = $1", "5000")
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = db.Exec(`INSERT INTO payments.accounts (code, enabled) VALUES ('9000', FALSE)`)
	require.NoError(t, err)

	accounts, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, "1000", accounts[0].Code)
	require.Equal(t, "cards", accounts[0].Category())
	require.Equal(t, "2000", accounts[1].Code)
	require.Nil(t, accounts[1].Metadata)
}

func TestAccountRecordTable(t *testing.T) {
	si, err := parse.Object(new(AccountRecord), "payments", "accounts")
	require.NoError(t, err)
	require.Equal(t, si, &AccountRecordTable.s)
	require.Equal(t, "account_id", AccountRecordTable.Columns()[AccountRecordTable.PKColumnIndex()])
}
