package payments

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTransportError(t *testing.T) {
	err := errors.Wrap(&TransportError{Provider: "modern_treasury", StatusCode: 402, Err: errors.New("insufficient balance")}, "Failed create payment order")
	require.True(t, IsTransport(err))
	require.False(t, IsProvider(err))
	require.Equal(t, "Failed create payment order: modern_treasury: transport: status 402: insufficient balance", err.Error())

	err = &TransportError{Provider: "stripe", Err: context.DeadlineExceeded}
	require.Equal(t, "stripe: transport: context deadline exceeded", err.Error())
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Provider: "stripe", Code: "card_declined", Message: "Your card was declined."}
	require.True(t, IsProvider(err))
	require.False(t, IsTransport(err))
	require.Equal(t, "stripe: rejected (card_declined): Your card was declined.", err.Error())
	require.Equal(t, "stripe: rejected: no source", (&ProviderError{Provider: "stripe", Message: "no source"}).Error())
}

func TestConfigurationError(t *testing.T) {
	var err error = &ConfigurationError{Field: "providers.stripe.api_key", Reason: "not set"}
	require.True(t, IsConfiguration(err))
	require.Equal(t, "configuration: providers.stripe.api_key: not set", err.Error())
	require.False(t, IsConfiguration(ErrNoMatchingProvider))
}

func TestAccount(t *testing.T) {
	acc := Account{Code: "1000", Metadata: map[string]interface{}{"category": "customer", "limit": 5}}
	require.Equal(t, "customer", acc.Category())
	require.Equal(t, "", acc.MetaString("limit"))
	require.Equal(t, "", Account{Code: "1"}.Category())

	md := acc.CopyMetadata()
	md["category"] = "vendor"
	require.Equal(t, "customer", acc.Category())
	require.Nil(t, Account{Code: "1"}.CopyMetadata())

	require.Equal(t, []string{"1000", "2000", "3000"}, Codes([]Account{{Code: "3000"}, {Code: "1000"}, {Code: "2000"}}))
}
