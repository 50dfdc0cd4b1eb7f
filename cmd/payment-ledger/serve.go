package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmehra2102/payment-ledger/internal/config"
	"github.com/dmehra2102/payment-ledger/internal/payment/application"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/account"
	accountgrpc "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/grpc"
	paymenthttp "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/http"
	paymentkafka "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/kafka"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/postgres"
	"github.com/dmehra2102/payment-ledger/pkg/idempotency"
	"github.com/dmehra2102/payment-ledger/pkg/logging"
	"github.com/dmehra2102/payment-ledger/pkg/outbox"
	"github.com/dmehra2102/payment-ledger/pkg/shutdown"
	"github.com/dmehra2102/payment-ledger/pkg/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func serve(parent context.Context, cfg *config.Config, migrate bool) error {
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(parent)
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := tracing.Init(ctx, "payment-ledger", cfg.OTLPEndpoint, log)
		if err != nil {
			return fmt.Errorf("otel init: %w", err)
		}
		defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()
	}

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		return fmt.Errorf("pg connect: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pg ping: %w", err)
	}
	if migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	// Ledgers
	repo := postgres.NewRepository(log, pool)
	accounts, closeAccounts, err := accountService(log, cfg)
	if err != nil {
		return fmt.Errorf("account service: %w", err)
	}
	defer closeAccounts()
	payments := application.NewPaymentService(log, repo.Payments(), accounts)
	refunds := application.NewRefundService(log, repo.Refunds())
	handler := paymenthttp.NewHandler(log, payments, refunds)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	if cfg.IdempotencyEnabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		r.Use(idempotency.Middleware(log, idempotency.NewStore(rdb, cfg.IdempotencyTTL)))
	}
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Outbox relay
	if cfg.OutboxEnabled {
		writer := paymentkafka.NewWriter(cfg.KafkaBrokers)
		defer writer.Close()

		store := postgres.NewOutboxStore(log, pool)
		dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
		relay := outbox.NewRelay(log, store, dispatch, relayID())
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Error("relay stopped with error", "err", err)
			}
		}()
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("payment-ledger shutdown complete")
	return nil
}

func accountService(log *slog.Logger, cfg *config.Config) (application.AccountService, func(), error) {
	if cfg.AccountMode == config.AccountModeDummy {
		log.Warn("using dummy account service", "response", cfg.DummyAccountResponse)
		return account.NewDummy(cfg.DummyAccountResponse), func() {}, nil
	}
	client, err := accountgrpc.NewAccountClient(log, cfg.AccountAddr, cfg.AccountTimeout)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func relayID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "payment-ledger"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
