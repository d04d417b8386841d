package provider

import (
	"context"
	"strings"
)

type Provider string

func (p Provider) Match(in Provider) bool {
	return p == in
}

func (p Provider) String() string { return string(p) }

// Normalize lowercases and trims a provider name from configuration.
func Normalize(name string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(name)))
}

const (
	UNKNOWN_PROVIDER Provider = ""
)

// Adapter wraps one external payment API.
//
// Charge must not panic and must not return a Go error: transport failures
// and provider rejections are both reported through PaymentResult.
type Adapter interface {
	Name() Provider
	Charge(ctx context.Context, req *PaymentRequest) *PaymentResult
}

// PaymentRequest is built by the dispatcher for one account.
type PaymentRequest struct {
	AccountCode string
	// Amount in minor currency units.
	Amount      int64
	Currency    string
	Description string
	// Metadata of the account, adapters read their own references from it.
	Metadata map[string]interface{}
}

// MetaString returns a string value of the request metadata.
func (r *PaymentRequest) MetaString(key string) string {
	if r == nil || r.Metadata == nil {
		return ""
	}
	s, _ := r.Metadata[key].(string)
	return s
}

// PaymentResult has the same shape for every provider.
type PaymentResult struct {
	AccountCode string                 `json:"account_code"`
	Success     bool                   `json:"success"`
	Provider    Provider               `json:"provider"`
	RawResponse map[string]interface{} `json:"raw_response"`
	Error       string                 `json:"error,omitempty"`

	// Err keeps the typed error behind Error for classification.
	Err error `json:"-"`
}

// Succeeded builds a successful result holding the provider payload verbatim.
func Succeeded(p Provider, req *PaymentRequest, raw map[string]interface{}) *PaymentResult {
	return &PaymentResult{
		AccountCode: req.AccountCode,
		Success:     true,
		Provider:    p,
		RawResponse: raw,
	}
}

// Failed builds a failed result. RawResponse is always nil.
func Failed(p Provider, accountCode string, err error) *PaymentResult {
	res := &PaymentResult{
		AccountCode: accountCode,
		Provider:    p,
		Err:         err,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// OrderNumber returns the provider-side identifier from the raw response.
func (r *PaymentResult) OrderNumber() string {
	if r == nil || r.RawResponse == nil {
		return ""
	}
	id, _ := r.RawResponse["id"].(string)
	return id
}
