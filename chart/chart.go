// Package chart loads the chart of accounts that a dispatch run works on.
package chart

import (
	"context"

	"github.com/pkg/errors"

	payments "github.com/metaversemultiverse/Payments-Gateway"
)

// Source returns accounts in a stable order.
type Source interface {
	Load(ctx context.Context) ([]payments.Account, error)
}

// Validate rejects empty and duplicate codes. A duplicate code would be
// dispatched twice and billed twice.
func Validate(accounts []payments.Account) error {
	seen := make(map[string]int, len(accounts))
	for i, a := range accounts {
		if a.Code == "" {
			return errors.Wrapf(payments.ErrEmptyAccountCode, "account #%d", i)
		}
		if j, ok := seen[a.Code]; ok {
			return errors.Wrapf(payments.ErrDuplicateAccount, "%q at #%d and #%d", a.Code, j, i)
		}
		seen[a.Code] = i
	}
	return nil
}
