package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
	"github.com/metaversemultiverse/Payments-Gateway/provider/moderntreasury"
	"github.com/metaversemultiverse/Payments-Gateway/provider/stripe"
)

const testConfig = `
log_level: DEBUG
accounts:
  file: testdata/accounts.yaml
dispatch:
  workers: 4
  call_timeout: 5s
routes:
  - category: customer
    provider: Stripe
    amount: "10.50"
    currency: USD
  - category: vendor
    provider: modern_treasury
    amount: 500
    currency: usd
    description: vendor payout
  - code: "4000"
    provider: stripe
    amount: "1200"
    currency: jpy
providers:
  stripe:
    source: tok_visa
  modern_treasury:
    endpoint: https://mt.example.com/api/payment_orders
    type: ach
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("STRIPE_API_KEY", "sk_test_env")
	t.Setenv("MODERN_TREASURY_TOKEN", "mt_env")
	t.Setenv("PAYDISPATCH_DISPATCH_WORKERS", "8")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.Equal(t, SourceFile, cfg.Accounts.Source)
	require.Equal(t, "testdata/accounts.yaml", cfg.Accounts.File)
	require.Equal(t, 8, cfg.Dispatch.Workers)
	require.Equal(t, 5*time.Second, cfg.Dispatch.CallTimeout)
	require.Equal(t, "sk_test_env", cfg.Providers.Stripe.APIKey)
	require.Equal(t, "tok_visa", cfg.Providers.Stripe.Source)
	require.Equal(t, 30*time.Second, cfg.Providers.Stripe.Timeout)
	require.Equal(t, "mt_env", cfg.Providers.ModernTreasury.Token)
	require.Equal(t, "ach", cfg.Providers.ModernTreasury.Type)

	routes, err := cfg.EngineRoutes()
	require.NoError(t, err)
	require.Len(t, routes, 3)
	require.Equal(t, stripe.STRIPE, routes[0].Provider)
	require.EqualValues(t, 1050, routes[0].Amount)
	require.Equal(t, "usd", routes[0].Currency)
	require.Equal(t, moderntreasury.MODERN_TREASURY, routes[1].Provider)
	require.EqualValues(t, 50000, routes[1].Amount)
	require.Equal(t, "vendor payout", routes[1].Description)
	require.Equal(t, "4000", routes[2].Code)
	require.EqualValues(t, 1200, routes[2].Amount)

	router, err := cfg.Router()
	require.NoError(t, err)
	adapters, err := cfg.Adapters(router.Providers())
	require.NoError(t, err)
	require.Len(t, adapters, 2)
	require.Equal(t, moderntreasury.MODERN_TREASURY, adapters[0].Name())
	require.Equal(t, stripe.STRIPE, adapters[1].Name())

	opts := cfg.Options()
	require.Equal(t, 8, opts.Workers)
	require.Equal(t, 5*time.Second, opts.CallTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LogLevel: "INFO",
			Accounts: AccountsConfig{Source: SourceFile, File: "accounts.yaml"},
			Dispatch: DispatchConfig{Workers: 1},
			Routes: []RouteConfig{
				{Category: "customer", Provider: "stripe", Amount: "10", Currency: "usd"},
			},
			Providers: ProvidersConfig{Stripe: StripeConfig{APIKey: "sk_test"}},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"LogLevel", func(c *Config) { c.LogLevel = "LOUD" }, "log_level"},
		{"UnknownSource", func(c *Config) { c.Accounts.Source = "s3" }, "accounts.source"},
		{"NoFile", func(c *Config) { c.Accounts.File = "" }, "accounts.file"},
		{"PostgresSourceWithoutConn", func(c *Config) { c.Accounts.Source = SourcePostgres }, "postgres.conn"},
		{"JournalWithoutConn", func(c *Config) { c.Postgres.Journal = true }, "postgres.conn"},
		{"NegativeWorkers", func(c *Config) { c.Dispatch.Workers = -1 }, "dispatch.workers"},
		{"NoRoutes", func(c *Config) { c.Routes = nil }, "routes"},
		{"UnknownProvider", func(c *Config) { c.Routes[0].Provider = "paypal" }, "routes[0].provider"},
		{"BadAmount", func(c *Config) { c.Routes[0].Amount = "ten" }, "routes[0].amount"},
		{"TooPrecise", func(c *Config) { c.Routes[0].Amount = "10.001" }, "routes[0].amount"},
		{"NoMatcher", func(c *Config) { c.Routes[0].Category = "" }, "routes[0]"},
		{"MissingStripeKey", func(c *Config) { c.Providers.Stripe.APIKey = "" }, "providers.stripe.api_key"},
		{"MissingModernTreasuryToken", func(c *Config) {
			c.Routes = append(c.Routes, RouteConfig{Category: "vendor", Provider: "modern_treasury", Amount: "1", Currency: "usd"})
		}, "providers.modern_treasury.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.modify(c)
			err := c.Validate()
			require.True(t, payments.IsConfiguration(err), "%v", err)
			require.Equal(t, tt.field, err.(*payments.ConfigurationError).Field)
		})
	}
}

func TestAdaptersOnlyForUsedProviders(t *testing.T) {
	c := &Config{Providers: ProvidersConfig{Stripe: StripeConfig{APIKey: "sk_test"}}}
	adapters, err := c.Adapters([]provider.Provider{stripe.STRIPE})
	require.NoError(t, err)
	require.Len(t, adapters, 1)

	_, err = c.Adapters([]provider.Provider{"paypal"})
	require.True(t, payments.IsConfiguration(err))
}

func TestLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{"": zapcore.InfoLevel, "ERROR": zapcore.ErrorLevel, "debug": zapcore.DebugLevel, "WARN": zapcore.WarnLevel} {
		level, err := (&Config{LogLevel: in}).Level()
		require.NoError(t, err)
		require.Equal(t, want, level, in)
	}
	_, err := (&Config{LogLevel: "LOUD"}).Level()
	require.True(t, payments.IsConfiguration(err))
}
