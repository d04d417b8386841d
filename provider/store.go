package provider

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/reform.v1"
)

const (
	prefixOrderId = "pgw"
)

// ErrAlreadyRecorded is returned by Record when the run already has a row
// for the account.
var ErrAlreadyRecorded = errors.New("result already recorded")

// Journal keeps one row per adapter outcome, keyed by the provider-side
// order number when the provider returned one.
type Journal struct {
	DB *reform.DB
	l  *zap.Logger
}

func NewJournal(db *reform.DB) *Journal {
	return &Journal{
		DB: db,
		l:  zap.L().Named("order_journal"),
	}
}

func (s *Journal) Record(runID string, res *PaymentResult) error {
	o, err := newExtOrder(runID, res)
	if err != nil {
		return err
	}
	if err := s.DB.Insert(o); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRecorded
		}
		return errors.Wrap(err, "Failed insert ext order")
	}
	return nil
}

// Recorded reports whether the run already has a row for the account.
func (s *Journal) Recorded(runID, accountCode string) (bool, error) {
	var o ExtOrder
	err := s.DB.SelectOneTo(&o, "WHERE run_id = $1 AND account_code = $2", runID, accountCode)
	switch err {
	case nil:
		return true, nil
	case reform.ErrNoRows:
		return false, nil
	default:
		return false, errors.Wrap(err, "Failed get ext order")
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func newExtOrder(runID string, res *PaymentResult) (*ExtOrder, error) {
	o := &ExtOrder{
		RunID:             runID,
		AccountCode:       res.AccountCode,
		PaymentSystemName: res.Provider,
		Success:           res.Success,
	}
	if id := res.OrderNumber(); id != "" {
		num := formatOrderID(res.Provider, id)
		o.OrderNumber = &num
	}
	if res.Error != "" {
		msg := res.Error
		o.ErrorMessage = &msg
	}
	if res.RawResponse != nil {
		b, err := json.Marshal(res.RawResponse)
		if err != nil {
			return nil, errors.Wrap(err, "Failed marshal raw response")
		}
		raw := string(b)
		o.RawResponse = &raw
	}
	return o, nil
}

// Observe records the result and only logs failures; the journal never
// changes a dispatch outcome.
func (s *Journal) Observe(_ context.Context, runID string, res *PaymentResult) {
	if err := s.Record(runID, res); err != nil {
		s.l.Warn(
			"Failed record dispatch result",
			zap.String("run_id", runID),
			zap.String("account_code", res.AccountCode),
			zap.String("provider", res.Provider.String()),
			zap.Error(err),
		)
	}
}

func (s *Journal) GetByOrderID(ordID string, providerName Provider) (*ExtOrder, error) {
	var o ExtOrder
	err := s.DB.SelectOneTo(&o, "WHERE order_number = $1", formatOrderID(providerName, ordID))
	if err != nil {
		if err == reform.ErrNoRows {
			return nil, err
		}
		return nil, errors.Wrap(err, "Failed get ext order")
	}
	return &o, nil
}

func (s *Journal) ListByRun(runID string) ([]*ExtOrder, error) {
	rows, err := s.DB.SelectAllFrom(ExtOrderTable, "WHERE run_id = $1 ORDER BY ext_order_id", runID)
	if err != nil {
		return nil, errors.Wrap(err, "Failed list ext orders")
	}
	res := make([]*ExtOrder, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.(*ExtOrder))
	}
	return res, nil
}

//go:generate reform

//reform:payments.ext_orders
type ExtOrder struct {
	ExtOrderID        int64     `reform:"ext_order_id,pk"`
	RunID             string    `reform:"run_id"`
	AccountCode       string    `reform:"account_code"`
	PaymentSystemName Provider  `reform:"payment_system_name"`
	OrderNumber       *string   `reform:"order_number"`
	Success           bool      `reform:"success"`
	ErrorMessage      *string   `reform:"error_message"`
	RawResponse       *string   `reform:"raw_response"`
	CreatedAt         time.Time `reform:"created_at"`
}

func (o *ExtOrder) BeforeInsert() error {
	o.CreatedAt = time.Now()
	return nil
}

func formatOrderID(p Provider, extOrderID string) string {
	return prefixOrderId + fmt.Sprintf("-%s-%s", p, extOrderID)
}
