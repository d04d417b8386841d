package payments

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoMatchingProvider = errors.New("no matching provider")
	ErrDispatchCanceled   = errors.New("dispatch canceled")
	ErrAdapterPanic       = errors.New("adapter panic")
	ErrEmptyAccountCode   = errors.New("empty account code")
	ErrDuplicateAccount   = errors.New("duplicate account code")
)

// TransportError is a failure to reach the provider: connection refused,
// timeout or a non-2xx HTTP status.
type TransportError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError is a business rejection reported by the provider, e.g.
// a declined charge or an invalid funding source.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: rejected (%s): %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: rejected: %s", e.Provider, e.Message)
}

// ConfigurationError is fatal at startup; no account is processed after it.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProvider reports whether err wraps a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsConfiguration reports whether err wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
