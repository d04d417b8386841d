package worker

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/metaversemultiverse/Payments-Gateway/engine"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

type recorder struct {
	runIDs  []string
	results []*provider.PaymentResult
	err     error
	// existing holds "run_id/account_code" keys
	existing map[string]bool
}

func (r *recorder) Recorded(runID, accountCode string) (bool, error) {
	for i, res := range r.results {
		if r.runIDs[i] == runID && res.AccountCode == accountCode {
			return true, nil
		}
	}
	return r.existing[runID+"/"+accountCode], nil
}

func (r *recorder) Record(runID string, res *provider.PaymentResult) error {
	if r.err != nil {
		return r.err
	}
	r.runIDs = append(r.runIDs, runID)
	r.results = append(r.results, res)
	return nil
}

func TestHandle(t *testing.T) {
	rec := &recorder{}
	err := Handle(rec, &engine.MessageDispatchResult{
		RunID:       "run-1",
		AccountCode: "1000",
		Provider:    "stripe",
		Success:     true,
		RawResponse: map[string]interface{}{"id": "ch_1"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"run-1"}, rec.runIDs)
	require.Equal(t, "1000", rec.results[0].AccountCode)
	require.Equal(t, "ch_1", rec.results[0].OrderNumber())
	require.True(t, rec.results[0].Success)
}

func TestHandleIncomplete(t *testing.T) {
	rec := &recorder{}
	require.Error(t, Handle(rec, nil))
	require.Error(t, Handle(rec, &engine.MessageDispatchResult{AccountCode: "1000"}))
	require.Error(t, Handle(rec, &engine.MessageDispatchResult{RunID: "run-1"}))
	require.Empty(t, rec.results)
}

func TestHandleRecorderError(t *testing.T) {
	rec := &recorder{err: errors.New("db down")}
	err := Handle(rec, &engine.MessageDispatchResult{RunID: "run-1", AccountCode: "1000", Error: "x"})
	require.EqualError(t, err, "db down")
}

func TestHandleSkipsRecordedResults(t *testing.T) {
	rec := &recorder{existing: map[string]bool{"run-1/1000": true}}
	m := &engine.MessageDispatchResult{RunID: "run-1", AccountCode: "1000", Provider: "stripe", Success: true}
	require.NoError(t, Handle(rec, m))
	require.Empty(t, rec.results)

	m = &engine.MessageDispatchResult{RunID: "run-1", AccountCode: "2000", Provider: "stripe", Success: true}
	require.NoError(t, Handle(rec, m))
	require.NoError(t, Handle(rec, m))
	require.Len(t, rec.results, 1)
	require.Equal(t, "2000", rec.results[0].AccountCode)

	rec = &recorder{err: provider.ErrAlreadyRecorded}
	require.NoError(t, Handle(rec, &engine.MessageDispatchResult{RunID: "run-2", AccountCode: "1000"}))
}
