// Package config loads the dispatcher configuration from a YAML file, the
// environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/engine"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
	"github.com/metaversemultiverse/Payments-Gateway/provider/moderntreasury"
	"github.com/metaversemultiverse/Payments-Gateway/provider/stripe"
)

const EnvPrefix = "PAYDISPATCH"

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	LogLevel   string `yaml:"log_level" mapstructure:"log_level"`
	Production bool   `yaml:"production" mapstructure:"production"`

	Accounts  AccountsConfig  `yaml:"accounts" mapstructure:"accounts"`
	Dispatch  DispatchConfig  `yaml:"dispatch" mapstructure:"dispatch"`
	Routes    []RouteConfig   `yaml:"routes" mapstructure:"routes"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Postgres  PostgresConfig  `yaml:"postgres" mapstructure:"postgres"`
	NATS      NATSConfig      `yaml:"nats" mapstructure:"nats"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
}

type AccountsConfig struct {
	// Source is "file" or "postgres".
	Source string `yaml:"source" mapstructure:"source"`
	File   string `yaml:"file" mapstructure:"file"`
}

type DispatchConfig struct {
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	CallTimeout time.Duration `yaml:"call_timeout" mapstructure:"call_timeout"`
	// RunTimeout bounds the whole run, accounts not started in time fail.
	RunTimeout time.Duration `yaml:"run_timeout" mapstructure:"run_timeout"`
}

// RouteConfig is a routing rule. Amount is in major units ("10.50").
type RouteConfig struct {
	Code        string `yaml:"code" mapstructure:"code"`
	Category    string `yaml:"category" mapstructure:"category"`
	Provider    string `yaml:"provider" mapstructure:"provider"`
	Amount      string `yaml:"amount" mapstructure:"amount"`
	Currency    string `yaml:"currency" mapstructure:"currency"`
	Description string `yaml:"description" mapstructure:"description"`
}

type ProvidersConfig struct {
	Stripe         StripeConfig         `yaml:"stripe" mapstructure:"stripe"`
	ModernTreasury ModernTreasuryConfig `yaml:"modern_treasury" mapstructure:"modern_treasury"`
}

type StripeConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Source  string        `yaml:"source" mapstructure:"source"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type ModernTreasuryConfig struct {
	Endpoint             string        `yaml:"endpoint" mapstructure:"endpoint"`
	Token                string        `yaml:"token" mapstructure:"token"`
	Timeout              time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Type                 string        `yaml:"type" mapstructure:"type"`
	Direction            string        `yaml:"direction" mapstructure:"direction"`
	OriginatingAccountID string        `yaml:"originating_account_id" mapstructure:"originating_account_id"`
}

type PostgresConfig struct {
	Conn            string        `yaml:"conn" mapstructure:"conn"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	// Journal records every result in payments.ext_orders.
	Journal bool `yaml:"journal" mapstructure:"journal"`
}

type NATSConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("production", false)
	v.SetDefault("accounts.source", SourceFile)
	v.SetDefault("accounts.file", "accounts.yaml")
	v.SetDefault("dispatch.workers", 1)
	v.SetDefault("dispatch.call_timeout", 30*time.Second)
	v.SetDefault("dispatch.run_timeout", time.Duration(0))
	v.SetDefault("providers.stripe.api_key", "")
	v.SetDefault("providers.stripe.source", "")
	v.SetDefault("providers.stripe.timeout", 30*time.Second)
	v.SetDefault("providers.modern_treasury.endpoint", moderntreasury.DefaultEndpoint)
	v.SetDefault("providers.modern_treasury.token", "")
	v.SetDefault("providers.modern_treasury.timeout", 30*time.Second)
	v.SetDefault("providers.modern_treasury.type", "")
	v.SetDefault("providers.modern_treasury.direction", "")
	v.SetDefault("providers.modern_treasury.originating_account_id", "")
	v.SetDefault("postgres.conn", "")
	v.SetDefault("postgres.max_open_conns", 5)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Duration(0))
	v.SetDefault("postgres.journal", false)
	v.SetDefault("nats.url", "")
	v.SetDefault("metrics.addr", "")
}

// Load reads the .env file of the working directory (if any), the config
// file (if path is set) and PAYDISPATCH_* variables, in increasing
// priority. Provider credentials are also read from STRIPE_API_KEY and
// MODERN_TREASURY_TOKEN.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "Failed load .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("providers.stripe.api_key", EnvPrefix+"_PROVIDERS_STRIPE_API_KEY", "STRIPE_API_KEY"); err != nil {
		return nil, errors.Wrap(err, "Failed bind env")
	}
	if err := v.BindEnv("providers.modern_treasury.token", EnvPrefix+"_PROVIDERS_MODERN_TREASURY_TOKEN", "MODERN_TREASURY_TOKEN"); err != nil {
		return nil, errors.Wrap(err, "Failed bind env")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "Failed read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "Failed decode config")
	}
	return &cfg, nil
}

// Validate checks everything that can be checked without network access.
// It returns a ConfigurationError.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Accounts.Source {
	case SourceFile:
		if c.Accounts.File == "" {
			return &payments.ConfigurationError{Field: "accounts.file", Reason: "not set"}
		}
	case SourcePostgres:
		if c.Postgres.Conn == "" {
			return &payments.ConfigurationError{Field: "postgres.conn", Reason: "required by accounts.source postgres"}
		}
	default:
		return &payments.ConfigurationError{Field: "accounts.source", Reason: "unknown source " + c.Accounts.Source}
	}
	if c.Dispatch.Workers < 0 {
		return &payments.ConfigurationError{Field: "dispatch.workers", Reason: "must not be negative"}
	}
	if c.Dispatch.CallTimeout < 0 || c.Dispatch.RunTimeout < 0 {
		return &payments.ConfigurationError{Field: "dispatch", Reason: "timeouts must not be negative"}
	}
	if c.Postgres.Journal && c.Postgres.Conn == "" {
		return &payments.ConfigurationError{Field: "postgres.conn", Reason: "required by postgres.journal"}
	}
	if len(c.Routes) == 0 {
		return &payments.ConfigurationError{Field: "routes", Reason: "at least one route is required"}
	}
	routes, err := c.EngineRoutes()
	if err != nil {
		return err
	}
	router, err := engine.NewRouter(routes)
	if err != nil {
		return err
	}
	_, err = c.Adapters(router.Providers())
	return err
}

// Level parses log_level; an empty value means INFO.
func (c *Config) Level() (zapcore.Level, error) {
	level := zapcore.InfoLevel
	if c.LogLevel == "" {
		return level, nil
	}
	if err := level.Set(c.LogLevel); err != nil {
		return level, &payments.ConfigurationError{Field: "log_level", Reason: err.Error()}
	}
	return level, nil
}

// EngineRoutes converts the routing rules to minor-unit routes.
func (c *Config) EngineRoutes() ([]engine.Route, error) {
	res := make([]engine.Route, 0, len(c.Routes))
	for i, r := range c.Routes {
		p := provider.Normalize(r.Provider)
		switch {
		case p.Match(stripe.STRIPE), p.Match(moderntreasury.MODERN_TREASURY):
		default:
			return nil, &payments.ConfigurationError{Field: fieldf("routes[%d].provider", i), Reason: "unknown provider " + r.Provider}
		}
		amount, err := MinorUnits(r.Amount, r.Currency)
		if err != nil {
			return nil, &payments.ConfigurationError{Field: fieldf("routes[%d].amount", i), Reason: err.Error()}
		}
		res = append(res, engine.Route{
			Code:        r.Code,
			Category:    r.Category,
			Provider:    p,
			Amount:      amount,
			Currency:    strings.ToLower(strings.TrimSpace(r.Currency)),
			Description: r.Description,
		})
	}
	return res, nil
}

func fieldf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// Router builds the validated router.
func (c *Config) Router() (*engine.Router, error) {
	routes, err := c.EngineRoutes()
	if err != nil {
		return nil, err
	}
	return engine.NewRouter(routes)
}

// Adapters constructs the adapters of the given providers. Credentials
// are passed to the constructors and never kept in package state.
func (c *Config) Adapters(providers []provider.Provider) ([]provider.Adapter, error) {
	res := make([]provider.Adapter, 0, len(providers))
	for _, p := range providers {
		switch {
		case p.Match(stripe.STRIPE):
			a, err := stripe.NewProvider(stripe.Config{
				APIKey:  c.Providers.Stripe.APIKey,
				Source:  c.Providers.Stripe.Source,
				Timeout: c.Providers.Stripe.Timeout,
			})
			if err != nil {
				return nil, err
			}
			res = append(res, a)
		case p.Match(moderntreasury.MODERN_TREASURY):
			mt := c.Providers.ModernTreasury
			a, err := moderntreasury.NewProvider(moderntreasury.Config{
				Endpoint:             mt.Endpoint,
				Token:                mt.Token,
				Timeout:              mt.Timeout,
				Type:                 mt.Type,
				Direction:            mt.Direction,
				OriginatingAccountID: mt.OriginatingAccountID,
			})
			if err != nil {
				return nil, err
			}
			res = append(res, a)
		default:
			return nil, &payments.ConfigurationError{Field: "providers." + p.String(), Reason: "unknown provider"}
		}
	}
	return res, nil
}

// Options returns the dispatcher options without observers.
func (c *Config) Options() engine.Options {
	return engine.Options{
		Workers:     c.Dispatch.Workers,
		CallTimeout: c.Dispatch.CallTimeout,
	}
}
