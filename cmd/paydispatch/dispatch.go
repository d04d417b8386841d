package main

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"github.com/metaversemultiverse/Payments-Gateway/engine"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

type dispatchOutput struct {
	RunID      string                    `json:"run_id"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at"`
	Succeeded  int                       `json:"succeeded"`
	Failed     int                       `json:"failed"`
	Results    []*provider.PaymentResult `json:"results"`
}

func newDispatchOutput(rep *engine.Report) *dispatchOutput {
	return &dispatchOutput{
		RunID:      rep.RunID,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Succeeded:  rep.Succeeded(),
		Failed:     rep.Failed(),
		Results:    rep.Results,
	}
}

func dispatchCmd(opts *rootOptions) *cobra.Command {
	var (
		failOnError bool
		traceSpans  bool
	)
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Charge every account of the chart through its routed provider",
		Long: `Loads the chart of accounts, routes every account to a provider and
prints one result per account as JSON, in the order of the chart.

Dispatch is not idempotent: running it twice charges every account twice.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if traceSpans {
				trace.RegisterExporter(&spanLogger{l: zap.L().Named("trace")})
				trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
			}

			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			if err := a.serveMetrics(ctx); err != nil {
				return err
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			accounts, err := src.Load(ctx)
			if err != nil {
				return err
			}

			if t := opts.cfg.Dispatch.RunTimeout; t > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}
			rep := d.Run(ctx, accounts)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(newDispatchOutput(rep)); err != nil {
				return errors.Wrap(err, "Failed write results")
			}
			if failOnError && rep.Failed() > 0 {
				return errors.Errorf("%d of %d accounts failed", rep.Failed(), len(rep.Results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit with an error when any account failed.")
	cmd.Flags().BoolVar(&traceSpans, "trace", false, "Log tracing spans.")
	return cmd
}

// spanLogger exports finished spans to the log.
type spanLogger struct {
	l *zap.Logger
}

func (e *spanLogger) ExportSpan(s *trace.SpanData) {
	fields := []zap.Field{
		zap.String("trace_id", s.TraceID.String()),
		zap.String("span_id", s.SpanID.String()),
		zap.Duration("duration", s.EndTime.Sub(s.StartTime)),
	}
	for k, v := range s.Attributes {
		fields = append(fields, zap.Any(k, v))
	}
	e.l.Debug(s.Name, fields...)
}

var _ trace.Exporter = (*spanLogger)(nil)
