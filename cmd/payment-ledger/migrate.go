package main

import (
	"fmt"

	"github.com/dmehra2102/payment-ledger/internal/config"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/postgres"
	"github.com/dmehra2102/payment-ledger/pkg/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the payments, refunds and outbox tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel)

			pool, err := pgxpool.New(cmd.Context(), cfg.PGURL)
			if err != nil {
				return fmt.Errorf("pg connect: %w", err)
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
}
