// Package integration starts the Postgres, Kafka and Redis containers used by
// tests built with the integration tag.
package integration

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Env struct {
	PG       *postgres.PostgresContainer
	Kafka    *kafka.KafkaContainer
	Redis    *tcredis.RedisContainer
	PGURL    string
	KAddr    []string
	RedisURL string
}

type options struct {
	postgres bool
	kafka    bool
	redis    bool
}

type Option func(*options)

func WithPostgres() Option { return func(o *options) { o.postgres = true } }
func WithKafka() Option    { return func(o *options) { o.kafka = true } }
func WithRedis() Option    { return func(o *options) { o.redis = true } }

// Setup starts the requested containers. On error everything already started
// is terminated.
func Setup(ctx context.Context, opts ...Option) (*Env, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	env := &Env{}
	fail := func(err error) (*Env, error) {
		env.Teardown(context.Background())
		return nil, err
	}

	if o.postgres {
		pgC, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("payments"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(time.Minute),
			),
		)
		if err != nil {
			return fail(err)
		}
		env.PG = pgC
		if env.PGURL, err = pgC.ConnectionString(ctx, "sslmode=disable"); err != nil {
			return fail(err)
		}
	}

	if o.kafka {
		kC, err := kafka.Run(ctx,
			"confluentinc/confluent-local:7.5.0",
			kafka.WithClusterID("payment-ledger-test"),
		)
		if err != nil {
			return fail(err)
		}
		env.Kafka = kC
		if env.KAddr, err = kC.Brokers(ctx); err != nil {
			return fail(err)
		}
	}

	if o.redis {
		rC, err := tcredis.Run(ctx, "redis:7-alpine")
		if err != nil {
			return fail(err)
		}
		env.Redis = rC
		if env.RedisURL, err = rC.ConnectionString(ctx); err != nil {
			return fail(err)
		}
	}
	return env, nil
}

func (e *Env) Teardown(ctx context.Context) {
	if e.Redis != nil {
		_ = e.Redis.Terminate(ctx)
	}
	if e.Kafka != nil {
		_ = e.Kafka.Terminate(ctx)
	}
	if e.PG != nil {
		_ = e.PG.Terminate(ctx)
	}
}
