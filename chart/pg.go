package chart

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/reform.v1"

	payments "github.com/metaversemultiverse/Payments-Gateway"
)

// PGSource reads enabled accounts from payments.accounts.
type PGSource struct {
	DB *reform.DB
}

func (s *PGSource) Load(ctx context.Context) ([]payments.Account, error) {
	rows, err := s.DB.SelectAllFrom(AccountRecordTable, "WHERE enabled ORDER BY account_id")
	if err != nil {
		return nil, errors.Wrap(err, "Failed select accounts")
	}
	res := make([]payments.Account, 0, len(rows))
	for _, r := range rows {
		acc, err := r.(*AccountRecord).Account()
		if err != nil {
			return nil, err
		}
		res = append(res, acc)
	}
	if err := Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Import stores all accounts in one transaction: either every account is
// inserted or none is.
func (s *PGSource) Import(accounts []payments.Account) error {
	return s.DB.InTransaction(func(tx *reform.TX) error {
		for _, acc := range accounts {
			if err := Insert(tx.Querier, acc); err != nil {
				return errors.Wrapf(err, "account %s", acc.Code)
			}
		}
		return nil
	})
}

// Insert stores an enabled account using q, which may belong to a
// transaction.
func Insert(q *reform.Querier, acc payments.Account) error {
	r := &AccountRecord{Code: acc.Code, Enabled: true}
	if len(acc.Metadata) > 0 {
		b, err := json.Marshal(acc.Metadata)
		if err != nil {
			return errors.Wrap(err, "Failed marshal account metadata")
		}
		meta := string(b)
		r.Metadata = &meta
	}
	if err := q.Insert(r); err != nil {
		return errors.Wrap(err, "Failed insert account")
	}
	return nil
}

//go:generate reform

//reform:payments.accounts
type AccountRecord struct {
	AccountID int64     `reform:"account_id,pk"`
	Code      string    `reform:"code"`
	Metadata  *string   `reform:"metadata"`
	Enabled   bool      `reform:"enabled"`
	CreatedAt time.Time `reform:"created_at"`
}

func (r *AccountRecord) BeforeInsert() error {
	r.CreatedAt = time.Now()
	return nil
}

func (r *AccountRecord) Account() (payments.Account, error) {
	acc := payments.Account{Code: r.Code}
	if r.Metadata != nil && *r.Metadata != "" {
		if err := json.Unmarshal([]byte(*r.Metadata), &acc.Metadata); err != nil {
			return acc, errors.Wrapf(err, "Failed unmarshal metadata of account %q", r.Code)
		}
	}
	return acc, nil
}
