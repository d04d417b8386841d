// Package storage opens the PostgreSQL connection shared by the chart of
// accounts source and the order journal.
package storage

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq" // register database driver
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/dialects/postgresql"
)

func Open(conn string, maxLifetime time.Duration, maxOpen, maxIdle int) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to PostgreSQL")
	}
	sqlDB.SetConnMaxLifetime(maxLifetime)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if err = sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "Failed to connect ping PostgreSQL")
	}
	zap.L().Info("Postgres - Connected!")

	return sqlDB, nil
}

func NewDB(sqlDB *sql.DB) *reform.DB {
	return reform.NewDB(sqlDB, postgresql.Dialect, reform.NewPrintfLogger(zap.L().Sugar().Debugf))
}

func RunMigrations(db *reform.DB) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS payments;`,

		`CREATE TABLE IF NOT EXISTS payments.accounts (
			account_id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			metadata JSONB,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS payments.ext_orders (
			ext_order_id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			account_code TEXT NOT NULL,
			payment_system_name TEXT NOT NULL,
			order_number TEXT,
			success BOOLEAN NOT NULL,
			error_message TEXT,
			raw_response JSONB,
			created_at TIMESTAMPTZ NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS ext_orders_run_id_idx ON payments.ext_orders (run_id);`,
		`CREATE INDEX IF NOT EXISTS ext_orders_order_number_idx ON payments.ext_orders (order_number);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ext_orders_run_account_idx ON payments.ext_orders (run_id, account_code);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "Failed run migration")
		}
	}
	return nil
}
