package worker

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/metaversemultiverse/Payments-Gateway/engine"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

const QUEUE = "journal"

// Recorder stores a dispatch result; *provider.Journal implements it.
type Recorder interface {
	Recorded(runID, accountCode string) (bool, error)
	Record(runID string, res *provider.PaymentResult) error
}

// SubToNATS records every published dispatch result. Subscribers share the
// queue group, so each message is recorded once.
func SubToNATS(nc *nats.EncodedConn, rec Recorder) (*nats.Subscription, error) {
	l := zap.L().Named("journal_worker")
	sub, err := nc.QueueSubscribe(engine.RESULT_SUBJECT, QUEUE, func(m *engine.MessageDispatchResult) {
		if err := Handle(rec, m); err != nil {
			l.Warn("Failed handle dispatch result.", zap.String("run_id", m.RunID), zap.Error(err))
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed subscribe to dispatch results")
	}
	return sub, nil
}

func Handle(rec Recorder, m *engine.MessageDispatchResult) error {
	if m == nil || m.RunID == "" || m.AccountCode == "" {
		return errors.New("incomplete message")
	}
	// A dispatcher with postgres.journal has written the row already, and
	// NATS may redeliver.
	done, err := rec.Recorded(m.RunID, m.AccountCode)
	if err != nil {
		return err
	}
	if done {
		return nil
	}
	err = rec.Record(m.RunID, m.Result())
	if errors.Is(err, provider.ErrAlreadyRecorded) {
		return nil
	}
	return err
}

// Run keeps the subscription until ctx is done.
func Run(ctx context.Context, nc *nats.EncodedConn, rec Recorder) error {
	sub, err := SubToNATS(nc, rec)
	if err != nil {
		return err
	}
	zap.L().Info("Journal worker - subscribed!", zap.String("subject", engine.RESULT_SUBJECT))
	<-ctx.Done()
	return sub.Unsubscribe()
}

var _ Recorder = (*provider.Journal)(nil)
