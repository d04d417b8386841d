package main

import (
	"fmt"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaversemultiverse/Payments-Gateway/chart"
	"github.com/metaversemultiverse/Payments-Gateway/engine/worker"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
	"github.com/metaversemultiverse/Payments-Gateway/storage"
)

func routesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the resolved routing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := opts.cfg.Router()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MATCH\tPROVIDER\tAMOUNT\tCURRENCY\tDESCRIPTION")
			for _, r := range router.Routes() {
				match := "category=" + r.Category
				if r.Code != "" {
					match = "code=" + r.Code
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", match, r.Provider, r.Amount, r.Currency, r.Description)
			}
			return w.Flush()
		},
	}
}

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the accounts and journal tables in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			db, err := a.requireDB()
			if err != nil {
				return err
			}
			if err := storage.RunMigrations(db); err != nil {
				return err
			}
			zap.L().Info("Migrations applied.")
			return nil
		},
	}
}

func accountsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect and import the chart of accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the accounts of the configured source as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			src, err := a.source()
			if err != nil {
				return err
			}
			accounts, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(accounts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import [file]",
		Short: "Copy accounts from a YAML file into PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := (&chart.FileSource{Path: args[0]}).Load(cmd.Context())
			if err != nil {
				return err
			}
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			db, err := a.requireDB()
			if err != nil {
				return err
			}
			if err := (&chart.PGSource{DB: db}).Import(accounts); err != nil {
				return err
			}
			zap.L().Info("Accounts imported.", zap.Int("count", len(accounts)))
			return nil
		},
	})
	return cmd
}

func workerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Record dispatch results published to NATS in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.NATS.URL == "" {
				return errors.New("nats.url is not configured")
			}
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			db, err := a.requireDB()
			if err != nil {
				return err
			}
			if err := a.serveMetrics(cmd.Context()); err != nil {
				return err
			}
			return worker.Run(cmd.Context(), a.nc, provider.NewJournal(db))
		},
	}
}
