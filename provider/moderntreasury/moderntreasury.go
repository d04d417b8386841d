package moderntreasury

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

const (
	MODERN_TREASURY provider.Provider = "modern_treasury"

	DefaultEndpoint = "https://app.moderntreasury.com/api/payment_orders"
)

type Config struct {
	// Endpoint is the fixed payment orders URL.
	Endpoint string
	Token    string
	Timeout  time.Duration

	// Optional payment order attributes sent with every order.
	Type                 string
	Direction            string
	OriginatingAccountID string
}

type PaymentOrderRequest struct {
	Type                 string            `json:"type,omitempty"`
	Amount               int64             `json:"amount"`
	Direction            string            `json:"direction,omitempty"`
	Currency             string            `json:"currency"`
	OriginatingAccountID string            `json:"originating_account_id,omitempty"`
	Description          string            `json:"description"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

type Provider struct {
	cfg Config
	c   *client
	l   *zap.Logger
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Token == "" {
		return nil, &payments.ConfigurationError{Field: "providers.modern_treasury.token", Reason: "not set"}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &payments.ConfigurationError{Field: "providers.modern_treasury.endpoint", Reason: "invalid url " + cfg.Endpoint}
	}
	return &Provider{
		cfg: cfg,
		c:   newClient(cfg.Token, cfg.Timeout),
		l:   zap.L().Named("modern_treasury_provider"),
	}, nil
}

func (p *Provider) Name() provider.Provider { return MODERN_TREASURY }

// Charge creates a payment order.
func (p *Provider) Charge(ctx context.Context, req *provider.PaymentRequest) (res *provider.PaymentResult) {
	defer func() {
		if r := recover(); r != nil {
			p.l.Error("Panic in create payment order", zap.String("account_code", req.AccountCode), zap.Any("panic", r))
			res = provider.Failed(MODERN_TREASURY, req.AccountCode, errors.Wrapf(payments.ErrAdapterPanic, "%v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return provider.Failed(MODERN_TREASURY, req.AccountCode, &payments.TransportError{Provider: MODERN_TREASURY.String(), Err: err})
	}

	in := &PaymentOrderRequest{
		Type:                 p.cfg.Type,
		Amount:               req.Amount,
		Direction:            p.cfg.Direction,
		Currency:             strings.ToUpper(req.Currency),
		OriginatingAccountID: p.cfg.OriginatingAccountID,
		Description:          req.Description,
		Metadata:             map[string]string{"account_code": req.AccountCode},
	}
	var out map[string]interface{}
	err := p.c.POSTAndUnmarshalJson(ctx, p.cfg.Endpoint, in, &out)
	if err == nil && out == nil {
		err = &payments.TransportError{Provider: MODERN_TREASURY.String(), Err: errors.New("invalid response body: not a JSON object")}
	}
	if err != nil {
		p.l.Warn(
			"create payment order",
			zap.String("url", p.cfg.Endpoint),
			zap.String("account_code", req.AccountCode),
			zap.Int64("amount", req.Amount),
			zap.String("currency", in.Currency),
			zap.Error(err),
		)
		return provider.Failed(MODERN_TREASURY, req.AccountCode, err)
	}
	return provider.Succeeded(MODERN_TREASURY, req, out)
}

var _ provider.Adapter = (*Provider)(nil)
