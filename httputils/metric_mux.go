package httputils

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type logFunc func(v ...interface{})

func (l logFunc) Println(v ...interface{}) {
	l(v...)
}

// RunDebugMux returns a mux serving /metrics from the gatherer.
func RunDebugMux(g prometheus.Gatherer) http.Handler {
	sugar := zap.L().Named("debugMux").Sugar()

	s := http.NewServeMux()
	s.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      logFunc(sugar.Warn),
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))
	s.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return s
}

// Serve listens on address and serves h until ctx is done. The listener is
// bound before Serve returns, so a bad address is reported to the caller.
func Serve(ctx context.Context, address string, h http.Handler) (net.Addr, error) {
	l := zap.L().Named("debugMux")

	lis, err := net.Listen("tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to listen %s", address)
	}
	l.Info("Listening...", zap.String("address", lis.Addr().String()))

	s := &http.Server{Handler: h}
	go func() {
		if err := s.Serve(lis); err != nil && err != http.ErrServerClosed {
			l.Error("Serve error.", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Close(); err != nil {
			l.Error("Close error.", zap.Error(err))
		} else {
			l.Info("Server stopped.")
		}
	}()
	return lis.Addr(), nil
}
