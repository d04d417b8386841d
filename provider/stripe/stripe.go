package stripe

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/charge"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

const (
	STRIPE provider.Provider = "stripe"

	metaAccountCode = "account_code"
	statusFailed    = "failed"
)

type Config struct {
	APIKey string
	// Source is charged when the account has no "source" metadata.
	Source  string
	Timeout time.Duration
}

// chargeClient is satisfied by charge.Client.
type chargeClient interface {
	New(params *stripe.ChargeParams) (*stripe.Charge, error)
}

type Provider struct {
	cfg Config
	c   chargeClient
	l   *zap.Logger
}

// NewProvider returns a ConfigurationError when the API key is missing.
// The key lives in the charge client of this provider only, the package
// level stripe.Key is never touched.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, &payments.ConfigurationError{Field: "providers.stripe.api_key", Reason: "not set"}
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	return newProvider(cfg, &charge.Client{B: backend, Key: cfg.APIKey}), nil
}

func newProvider(cfg Config, c chargeClient) *Provider {
	return &Provider{
		cfg: cfg,
		c:   c,
		l:   zap.L().Named("stripe_provider"),
	}
}

func (p *Provider) Name() provider.Provider { return STRIPE }

// Charge creates a charge for the request.
func (p *Provider) Charge(ctx context.Context, req *provider.PaymentRequest) (res *provider.PaymentResult) {
	defer func() {
		if r := recover(); r != nil {
			p.l.Error("Panic in create charge", zap.String("account_code", req.AccountCode), zap.Any("panic", r))
			res = provider.Failed(STRIPE, req.AccountCode, errors.Wrapf(payments.ErrAdapterPanic, "%v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return provider.Failed(STRIPE, req.AccountCode, &payments.TransportError{Provider: STRIPE.String(), Err: err})
	}

	source := req.MetaString(payments.MetaSource)
	if source == "" {
		source = p.cfg.Source
	}
	if source == "" {
		return provider.Failed(STRIPE, req.AccountCode, errors.New("no funding source for account"))
	}

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if err := params.SetSource(source); err != nil {
		return provider.Failed(STRIPE, req.AccountCode, errors.Wrap(err, "Failed set charge source"))
	}
	params.AddMetadata(metaAccountCode, req.AccountCode)

	ch, err := p.c.New(params)
	if err != nil {
		err = classify(err)
		p.l.Warn(
			"Failed create charge",
			zap.String("account_code", req.AccountCode),
			zap.Int64("amount", req.Amount),
			zap.String("currency", req.Currency),
			zap.Error(err),
		)
		return provider.Failed(STRIPE, req.AccountCode, err)
	}

	if string(ch.Status) == statusFailed || ch.FailureCode != "" {
		err := &payments.ProviderError{
			Provider: STRIPE.String(),
			Code:     ch.FailureCode,
			Message:  ch.FailureMessage,
		}
		p.l.Warn(
			"Charge failed",
			zap.String("account_code", req.AccountCode),
			zap.String("charge_id", ch.ID),
			zap.Error(err),
		)
		return provider.Failed(STRIPE, req.AccountCode, err)
	}

	raw, err := rawResponse(ch)
	if err != nil {
		// the charge exists, so the outcome stays successful
		p.l.Error("Failed encode charge", zap.String("charge_id", ch.ID), zap.Error(err))
		raw = map[string]interface{}{"id": ch.ID, "status": string(ch.Status)}
	}
	return provider.Succeeded(STRIPE, req, raw)
}

// classify maps stripe-go errors onto the payments error taxonomy.
func classify(err error) error {
	se, ok := err.(*stripe.Error)
	if !ok {
		return &payments.TransportError{Provider: STRIPE.String(), Err: err}
	}
	switch se.Type {
	case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
		code := string(se.DeclineCode)
		if code == "" {
			code = string(se.Code)
		}
		return &payments.ProviderError{
			Provider: STRIPE.String(),
			Code:     code,
			Message:  se.Msg,
		}
	default:
		return &payments.TransportError{
			Provider:   STRIPE.String(),
			StatusCode: se.HTTPStatusCode,
			Err:        errors.New(se.Msg),
		}
	}
}

func rawResponse(ch *stripe.Charge) (map[string]interface{}, error) {
	b, err := json.Marshal(ch)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

var _ provider.Adapter = (*Provider)(nil)
