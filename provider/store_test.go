package provider

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/reform.v1"

	"github.com/metaversemultiverse/Payments-Gateway/internal/pgtest"
)

func TestJournal(t *testing.T) {
	db := pgtest.DB(t)
	j := NewJournal(db)

	req := &PaymentRequest{AccountCode: "1000"}
	require.NoError(t, j.Record("run-1", Succeeded("stripe", req, map[string]interface{}{"id": "ch_1", "amount": 100.0})))
	j.Observe(context.Background(), "run-1", Failed("modern_treasury", "2000", errors.New("status 402")))
	require.NoError(t, j.Record("run-2", Failed(UNKNOWN_PROVIDER, "3000", errors.New("no matching provider"))))

	list, err := j.ListByRun("run-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.Equal(t, "1000", list[0].AccountCode)
	require.True(t, list[0].Success)
	require.Equal(t, Provider("stripe"), list[0].PaymentSystemName)
	require.NotNil(t, list[0].OrderNumber)
	require.Equal(t, "pgw-stripe-ch_1", *list[0].OrderNumber)
	require.Nil(t, list[0].ErrorMessage)
	require.NotNil(t, list[0].RawResponse)
	require.JSONEq(t, `{"id":"ch_1","amount":100}`, *list[0].RawResponse)

	require.Equal(t, "2000", list[1].AccountCode)
	require.False(t, list[1].Success)
	require.Nil(t, list[1].OrderNumber)
	require.Nil(t, list[1].RawResponse)
	require.Equal(t, "status 402", *list[1].ErrorMessage)

	o, err := j.GetByOrderID("ch_1", "stripe")
	require.NoError(t, err)
	require.Equal(t, "run-1", o.RunID)

	_, err = j.GetByOrderID("ch_404", "stripe")
	require.Equal(t, reform.ErrNoRows, err)

	ok, err := j.Recorded("run-1", "1000")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = j.Recorded("run-2", "1000")
	require.NoError(t, err)
	require.False(t, ok)

	err = j.Record("run-1", Succeeded("stripe", req, map[string]interface{}{"id": "ch_1"}))
	require.Equal(t, ErrAlreadyRecorded, err)
	list, err = j.ListByRun("run-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
}
