package main

import (
	"context"

	"github.com/dmehra2102/payment-ledger/internal/config"
	paymentkafka "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/kafka"
	"github.com/dmehra2102/payment-ledger/pkg/logging"
	"github.com/dmehra2102/payment-ledger/pkg/shutdown"
	"github.com/spf13/cobra"
)

func eventsCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow the ledger event topic and log every event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel)

			ctx, cancel := shutdown.WithSignals(cmd.Context())
			defer cancel()

			consumer := paymentkafka.NewConsumer(log, cfg.KafkaBrokers, cfg.OutboxTopic, group)
			return consumer.Run(ctx, func(_ context.Context, ev paymentkafka.LedgerEvent) error {
				switch {
				case ev.Payment != nil:
					log.Info("payment created", "payment_id", ev.PaymentID, "amount", ev.Payment.Amount, "status", ev.Payment.Status, "offset", ev.Offset)
				case ev.Refund != nil:
					log.Info("refund created", "payment_id", ev.PaymentID, "refund_id", ev.Refund.RefundID, "amount", ev.Refund.Amount, "offset", ev.Offset)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "payment-ledger-events", "Kafka consumer group")
	return cmd
}
