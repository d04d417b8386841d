// Package payments holds the chart-of-accounts model and the error taxonomy
// shared by the dispatcher and the provider adapters.
package payments

import "sort"

// Well-known metadata keys of an account.
const (
	MetaCategory = "category"
	MetaSource   = "source"
)

// Account is a chart-of-accounts entry that needs a payment action.
// Accounts are read-only for the duration of a dispatch.
type Account struct {
	Code     string                 `json:"code" yaml:"code"`
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Category returns metadata["category"] when it is a string.
func (a Account) Category() string {
	return a.MetaString(MetaCategory)
}

// MetaString returns a string metadata value or "" if the key is missing
// or not a string.
func (a Account) MetaString(key string) string {
	if a.Metadata == nil {
		return ""
	}
	s, _ := a.Metadata[key].(string)
	return s
}

// CopyMetadata returns a shallow copy of the metadata so adapters can not
// mutate the account.
func (a Account) CopyMetadata() map[string]interface{} {
	if len(a.Metadata) == 0 {
		return nil
	}
	res := make(map[string]interface{}, len(a.Metadata))
	for k, v := range a.Metadata {
		res[k] = v
	}
	return res
}

// Codes returns the sorted list of account codes.
func Codes(accounts []Account) []string {
	res := make([]string, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, a.Code)
	}
	sort.Strings(res)
	return res
}
