package main

import (
	"context"
	"database/sql"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gopkg.in/reform.v1"

	"github.com/metaversemultiverse/Payments-Gateway/chart"
	"github.com/metaversemultiverse/Payments-Gateway/config"
	"github.com/metaversemultiverse/Payments-Gateway/engine"
	"github.com/metaversemultiverse/Payments-Gateway/httputils"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
	"github.com/metaversemultiverse/Payments-Gateway/storage"
)

// app holds the optional infrastructure of one command invocation.
type app struct {
	cfg *config.Config

	sqlDB *sql.DB
	db    *reform.DB
	nc    *nats.EncodedConn
	reg   *prometheus.Registry
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg: cfg,
		reg: prometheus.NewRegistry(),
	}
	a.reg.MustRegister(collectors.NewGoCollector())

	if cfg.Postgres.Conn != "" {
		sqlDB, err := storage.Open(cfg.Postgres.Conn, cfg.Postgres.ConnMaxLifetime, cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		a.sqlDB = sqlDB
		a.db = storage.NewDB(sqlDB)
		if _, err := a.db.Exec("SELECT version();"); err != nil {
			a.Close()
			return nil, errors.Wrap(err, "Failed to check version to PostgreSQL")
		}
	}

	if cfg.NATS.URL != "" {
		nc, err := engine.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.nc = nc
		zap.L().Info("NATS - Connected!")
	}
	return a, nil
}

func (a *app) Close() {
	if a.nc != nil {
		if err := a.nc.Drain(); err != nil {
			zap.L().Warn("Failed drain NATS connection.", zap.Error(err))
		}
	}
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			zap.L().Warn("Failed close PostgreSQL.", zap.Error(err))
		}
	}
}

func (a *app) requireDB() (*reform.DB, error) {
	if a.db == nil {
		return nil, errors.New("postgres.conn is not configured")
	}
	return a.db, nil
}

func (a *app) source() (chart.Source, error) {
	if a.cfg.Accounts.Source == config.SourcePostgres {
		db, err := a.requireDB()
		if err != nil {
			return nil, err
		}
		return &chart.PGSource{DB: db}, nil
	}
	return &chart.FileSource{Path: a.cfg.Accounts.File}, nil
}

func (a *app) observers() []engine.Observer {
	var res []engine.Observer
	if a.cfg.Postgres.Journal && a.db != nil {
		res = append(res, provider.NewJournal(a.db))
	}
	if a.nc != nil {
		res = append(res, engine.NewNotifier(a.nc))
	}
	return res
}

// dispatcher validates the configuration and builds the dispatcher with
// its adapters and observers.
func (a *app) dispatcher() (*engine.Dispatcher, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	router, err := a.cfg.Router()
	if err != nil {
		return nil, err
	}
	adapters, err := a.cfg.Adapters(router.Providers())
	if err != nil {
		return nil, err
	}
	opts := a.cfg.Options()
	opts.Observers = a.observers()
	d, err := engine.NewDispatcher(router, adapters, opts)
	if err != nil {
		return nil, err
	}
	if err := a.reg.Register(d); err != nil {
		return nil, errors.Wrap(err, "Failed register dispatcher metrics")
	}
	return d, nil
}

// serveMetrics starts the /metrics server when metrics.addr is set.
func (a *app) serveMetrics(ctx context.Context) error {
	if a.cfg.Metrics.Addr == "" {
		return nil
	}
	_, err := httputils.Serve(ctx, a.cfg.Metrics.Addr, httputils.RunDebugMux(a.reg))
	return err
}
