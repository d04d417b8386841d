// Package engine routes accounts to provider adapters and collects one
// normalized result per account.
//
// Dispatch is not idempotent: running it twice over the same accounts
// sends two charges per account to the providers.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

// Observer receives every result of a run. Implementations must be safe
// for concurrent use and must not block for long.
type Observer interface {
	Observe(ctx context.Context, runID string, res *provider.PaymentResult)
}

type Options struct {
	// Workers is the number of accounts dispatched concurrently, 1 when unset.
	Workers int
	// CallTimeout bounds a single adapter call, no bound when zero.
	CallTimeout time.Duration
	Observers   []Observer
}

type Dispatcher struct {
	router   *Router
	adapters map[provider.Provider]provider.Adapter
	opts     Options
	l        *zap.Logger

	mResults  *prometheus.CounterVec
	mDuration *prometheus.HistogramVec
	mInFlight prometheus.Gauge
}

// NewDispatcher fails with a ConfigurationError when a route names a
// provider without an adapter.
func NewDispatcher(router *Router, adapters []provider.Adapter, opts Options) (*Dispatcher, error) {
	if router == nil {
		return nil, &payments.ConfigurationError{Field: "routes", Reason: "router is not set"}
	}
	d := &Dispatcher{
		router:   router,
		adapters: make(map[provider.Provider]provider.Adapter, len(adapters)),
		opts:     opts,
		l:        zap.L().Named("dispatcher"),
		mResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paydispatch_results_total",
			Help: "Dispatch results by provider and outcome.",
		}, []string{"provider", "outcome"}),
		mDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paydispatch_charge_duration_seconds",
			Help:    "Duration of a single adapter call.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
		}, []string{"provider"}),
		mInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paydispatch_charges_in_flight",
			Help: "Adapter calls in progress.",
		}),
	}
	if d.opts.Workers < 1 {
		d.opts.Workers = 1
	}
	for _, a := range adapters {
		if _, ok := d.adapters[a.Name()]; ok {
			return nil, &payments.ConfigurationError{Field: "providers." + a.Name().String(), Reason: "duplicate adapter"}
		}
		d.adapters[a.Name()] = a
	}
	for _, p := range router.Providers() {
		if _, ok := d.adapters[p]; !ok {
			return nil, &payments.ConfigurationError{Field: "providers." + p.String(), Reason: "routes use a provider that is not configured"}
		}
	}
	return d, nil
}

// Report is the outcome of one dispatch run. Results[i] belongs to the
// i-th input account.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []*provider.PaymentResult
}

func (r *Report) Succeeded() int {
	var n int
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Dispatch returns exactly one result per account, in input order.
func (d *Dispatcher) Dispatch(ctx context.Context, accounts []payments.Account) []*provider.PaymentResult {
	return d.Run(ctx, accounts).Results
}

// Run dispatches the accounts on the worker pool. Per-account failures are
// returned as results and never stop the run. When ctx is done, accounts
// that were not started yet fail without an adapter call.
func (d *Dispatcher) Run(ctx context.Context, accounts []payments.Account) *Report {
	rep := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Results:   make([]*provider.PaymentResult, len(accounts)),
	}
	ctx, span := trace.StartSpan(ctx, "dispatch.run")
	defer span.End()
	span.AddAttributes(
		trace.StringAttribute("run_id", rep.RunID),
		trace.Int64Attribute("accounts", int64(len(accounts))),
	)

	workers := d.opts.Workers
	if workers > len(accounts) {
		workers = len(accounts)
	}
	d.l.Info(
		"Dispatch started.",
		zap.String("run_id", rep.RunID),
		zap.Int("accounts", len(accounts)),
		zap.Int("workers", workers),
	)

	var wg sync.WaitGroup
	toDispatch := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range toDispatch {
				rep.Results[i] = d.dispatchOne(ctx, rep.RunID, accounts[i])
			}
		}()
	}
	for i := range accounts {
		toDispatch <- i
	}
	close(toDispatch)
	wg.Wait()

	rep.FinishedAt = time.Now()
	d.l.Info(
		"Dispatch finished.",
		zap.String("run_id", rep.RunID),
		zap.Int("succeeded", rep.Succeeded()),
		zap.Int("failed", rep.Failed()),
		zap.Duration("duration", rep.FinishedAt.Sub(rep.StartedAt)),
	)
	return rep
}

func (d *Dispatcher) dispatchOne(ctx context.Context, runID string, acc payments.Account) (res *provider.PaymentResult) {
	ctx, span := trace.StartSpan(ctx, "dispatch.account")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("account_code", acc.Code))

	defer func() {
		d.mResults.WithLabelValues(res.Provider.String(), outcome(res)).Inc()
		span.AddAttributes(
			trace.StringAttribute("provider", res.Provider.String()),
			trace.BoolAttribute("success", res.Success),
		)
		if !res.Success {
			d.l.Warn(
				"Dispatch failed.",
				zap.String("run_id", runID),
				zap.String("account_code", acc.Code),
				zap.String("provider", res.Provider.String()),
				zap.String("error", res.Error),
			)
		}
		d.observe(ctx, runID, res)
	}()

	if err := ctx.Err(); err != nil {
		return provider.Failed(provider.UNKNOWN_PROVIDER, acc.Code, errors.Wrap(payments.ErrDispatchCanceled, err.Error()))
	}

	route, ok := d.router.Match(acc)
	if !ok {
		return provider.Failed(provider.UNKNOWN_PROVIDER, acc.Code, payments.ErrNoMatchingProvider)
	}
	return d.call(ctx, d.adapters[route.Provider], route.Request(acc))
}

// call runs exactly one adapter call and normalizes whatever comes back.
func (d *Dispatcher) call(ctx context.Context, a provider.Adapter, req *provider.PaymentRequest) (res *provider.PaymentResult) {
	if d.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	d.mInFlight.Inc()
	defer func() {
		d.mInFlight.Dec()
		d.mDuration.WithLabelValues(a.Name().String()).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			d.l.Error("Adapter panic.", zap.String("account_code", req.AccountCode), zap.Any("panic", r))
			res = provider.Failed(a.Name(), req.AccountCode, errors.Wrapf(payments.ErrAdapterPanic, "%v", r))
		}
		if res == nil {
			res = provider.Failed(a.Name(), req.AccountCode, errors.New("adapter returned no result"))
		}
		res.AccountCode = req.AccountCode
		res.Provider = a.Name()
		if !res.Success {
			res.RawResponse = nil
			if res.Error == "" {
				res.Error = "provider reported a failure"
			}
		}
	}()

	d.l.Debug(
		"Charge.",
		zap.String("account_code", req.AccountCode),
		zap.String("provider", a.Name().String()),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)
	return a.Charge(ctx, req)
}

func (d *Dispatcher) observe(ctx context.Context, runID string, res *provider.PaymentResult) {
	for _, o := range d.opts.Observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.l.Error("Observer panic.", zap.String("run_id", runID), zap.Any("panic", r))
				}
			}()
			o.Observe(ctx, runID, res)
		}()
	}
}

func outcome(res *provider.PaymentResult) string {
	if res.Success {
		return "success"
	}
	switch cause := errors.Cause(res.Err); {
	case cause == payments.ErrNoMatchingProvider:
		return "routing_error"
	case cause == payments.ErrDispatchCanceled:
		return "canceled"
	case payments.IsTransport(res.Err):
		return "transport_error"
	case payments.IsProvider(res.Err):
		return "provider_error"
	default:
		return "failure"
	}
}

func (d *Dispatcher) Describe(ch chan<- *prometheus.Desc) {
	d.mResults.Describe(ch)
	d.mDuration.Describe(ch)
	d.mInFlight.Describe(ch)
}

func (d *Dispatcher) Collect(ch chan<- prometheus.Metric) {
	d.mResults.Collect(ch)
	d.mDuration.Collect(ch)
	d.mInFlight.Collect(ch)
}

// check interfaces
var (
	_ prometheus.Collector = (*Dispatcher)(nil)
	_ Observer             = (*provider.Journal)(nil)
)
