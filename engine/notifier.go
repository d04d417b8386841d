package engine

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

const (
	RESULT_SUBJECT = "payments.dispatch.result"
)

// MessageDispatchResult is published once per dispatched account.
type MessageDispatchResult struct {
	RunID       string                 `json:"run_id"`
	AccountCode string                 `json:"account_code"`
	Provider    provider.Provider      `json:"provider"`
	Success     bool                   `json:"success"`
	Error       string                 `json:"error,omitempty"`
	RawResponse map[string]interface{} `json:"raw_response"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Result rebuilds the payment result carried by the message.
func (m *MessageDispatchResult) Result() *provider.PaymentResult {
	return &provider.PaymentResult{
		AccountCode: m.AccountCode,
		Success:     m.Success,
		Provider:    m.Provider,
		RawResponse: m.RawResponse,
		Error:       m.Error,
	}
}

// Publisher is satisfied by *nats.EncodedConn.
type Publisher interface {
	Publish(subject string, v interface{}) error
}

// Notifier publishes dispatch results to NATS.
type Notifier struct {
	nc Publisher
	l  *zap.Logger
}

func NewNotifier(nc Publisher) *Notifier {
	return &Notifier{
		nc: nc,
		l:  zap.L().Named("notifier"),
	}
}

func (n *Notifier) Observe(_ context.Context, runID string, res *provider.PaymentResult) {
	err := n.nc.Publish(RESULT_SUBJECT, &MessageDispatchResult{
		RunID:       runID,
		AccountCode: res.AccountCode,
		Provider:    res.Provider,
		Success:     res.Success,
		Error:       res.Error,
		RawResponse: res.RawResponse,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		n.l.Warn(
			"Failed publish dispatch result",
			zap.String("run_id", runID),
			zap.String("account_code", res.AccountCode),
			zap.Error(err),
		)
	}
}

// ConnectNATS dials the server and wraps the connection with the JSON encoder.
func ConnectNATS(url string) (*nats.EncodedConn, error) {
	conn, err := nats.Connect(url, nats.Name("paydispatch"))
	if err != nil {
		return nil, errors.Wrap(err, "Failed connect to NATS")
	}
	nc, err := nats.NewEncodedConn(conn, nats.JSON_ENCODER)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "Failed create encoded NATS connection")
	}
	return nc, nil
}

// check interfaces
var (
	_ Observer  = (*Notifier)(nil)
	_ Publisher = (*nats.EncodedConn)(nil)
)
