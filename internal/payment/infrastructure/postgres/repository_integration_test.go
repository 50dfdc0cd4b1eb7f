//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmehra2102/payment-ledger/internal/payment/application"
	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/account"
	paymentkafka "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/kafka"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/postgres"
	"github.com/dmehra2102/payment-ledger/pkg/outbox"
	"github.com/dmehra2102/payment-ledger/test/integration"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	env  *integration.Env
	pool *pgxpool.Pool
	log  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	env, err = integration.Setup(ctx, integration.WithPostgres(), integration.WithKafka())
	if err != nil {
		fmt.Fprintln(os.Stderr, "integration setup:", err)
		os.Exit(1)
	}
	pool, err = pgxpool.New(ctx, env.PGURL)
	if err == nil {
		err = postgres.Migrate(ctx, pool)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "postgres setup:", err)
		env.Teardown(ctx)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	env.Teardown(ctx)
	os.Exit(code)
}

var cardSeq atomic.Int64

func nextCard() string {
	return fmt.Sprintf("%015d", 500000000000000+cardSeq.Add(1))
}

type ledger struct {
	accounts *account.Dummy
	payments *application.PaymentService
	refunds  *application.RefundService
}

func newLedger() ledger {
	repo := postgres.NewRepository(log, pool)
	accounts := account.NewDummy("")
	return ledger{
		accounts: accounts,
		payments: application.NewPaymentService(log, repo.Payments(), accounts),
		refunds:  application.NewRefundService(log, repo.Refunds()),
	}
}

func (l ledger) pay(t *testing.T, amount int32, status domain.Status) domain.Payment {
	t.Helper()
	p, err := l.payments.Create(context.Background(), amount, nextCard(), status)
	require.NoError(t, err)
	return p
}

func TestMigrateIsIdempotent(t *testing.T) {
	require.NoError(t, postgres.Migrate(context.Background(), pool))
}

func TestPaymentRoundTrip(t *testing.T) {
	l := newLedger()
	p := l.pay(t, 1205, domain.StatusApproved)

	got, err := l.payments.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, int32(1205), got.Amount)
	assert.Zero(t, got.RefundedAmount)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.False(t, got.InsertedAt.IsZero())

	_, err = l.payments.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestDuplicateCardSequential(t *testing.T) {
	l := newLedger()
	card := nextCard()

	_, err := l.payments.Create(context.Background(), 123, card, domain.StatusApproved)
	require.NoError(t, err)

	_, err = l.payments.Create(context.Background(), 123, card, domain.StatusApproved)
	assert.Equal(t, domain.KindDuplicatedInstrument, domain.KindOf(err))
	assert.Equal(t, 1, l.accounts.Held(), "hold of the rejected payment is released")
}

func TestDuplicateCardConcurrent(t *testing.T) {
	l := newLedger()
	card := nextCard()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.payments.Create(context.Background(), 50, card, domain.StatusApproved)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.Equal(t, domain.KindDuplicatedInstrument, domain.KindOf(err))
	}
	assert.Equal(t, 1, ok)
}

func TestRefundScenario(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	p := l.pay(t, 1205, domain.StatusApproved)

	_, err := l.refunds.Create(ctx, p.ID, 200)
	require.NoError(t, err)
	_, err = l.refunds.Create(ctx, p.ID, 900)
	require.NoError(t, err)
	_, err = l.refunds.Create(ctx, p.ID, 200)
	assert.Equal(t, domain.KindExcessiveAmount, domain.KindOf(err))

	got, err := l.payments.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1100), got.RefundedAmount)

	refunds, err := l.refunds.ListByPayment(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 2, "rejected refund leaves no row")
	assert.Equal(t, int32(200), refunds[0].Amount)
	assert.Equal(t, int32(900), refunds[1].Amount)

	r, err := l.refunds.Get(ctx, refunds[0].ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, r.PaymentID)
}

func TestRefundNotFoundIsUniform(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	declined := l.pay(t, 500, domain.StatusDeclined)

	_, errUnknown := l.refunds.Create(ctx, uuid.New(), 10)
	_, errDeclined := l.refunds.Create(ctx, declined.ID, 10)

	assert.Equal(t, domain.KindPaymentNotFound, domain.KindOf(errUnknown))
	assert.Equal(t, domain.KindPaymentNotFound, domain.KindOf(errDeclined))
	assert.Equal(t, errUnknown.Error(), errDeclined.Error())

	_, err := l.refunds.ListByPayment(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	_, err = l.refunds.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRefundNotFound)
}

func TestConcurrentRefundsOnlyOneFits(t *testing.T) {
	l := newLedger()
	p := l.pay(t, 1000, domain.StatusApproved)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.refunds.Create(context.Background(), p.ID, 700)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.Equal(t, domain.KindExcessiveAmount, domain.KindOf(err))
	}
	assert.Equal(t, 1, ok)

	got, err := l.payments.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(700), got.RefundedAmount)
}

func TestConcurrentRefundsNeverOverRefund(t *testing.T) {
	l := newLedger()
	p := l.pay(t, 1000, domain.StatusApproved)

	const n = 40
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.refunds.Create(context.Background(), p.ID, 30)
			if err == nil {
				succeeded.Add(1)
				return
			}
			assert.Equal(t, domain.KindExcessiveAmount, domain.KindOf(err))
		}()
	}
	wg.Wait()

	got, err := l.payments.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(33), succeeded.Load())
	assert.Equal(t, int32(990), got.RefundedAmount)

	var sum int64
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE payment_id = $1`, p.ID).Scan(&sum))
	assert.Equal(t, int64(got.RefundedAmount), sum)
}

func TestConcurrentRefundsListInCommitOrder(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	p := l.pay(t, 1000, domain.StatusApproved)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.refunds.Create(ctx, p.ID, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Outbox ids are drawn while the payment row is locked, so they give the
	// commit order of the refunds.
	rows, err := pool.Query(ctx,
		`SELECT payload->>'refund_id' FROM outbox WHERE aggregate_id = $1 AND type = $2 ORDER BY id`,
		p.ID.String(), domain.EventRefundCreated)
	require.NoError(t, err)
	var committed []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		committed = append(committed, id)
	}
	rows.Close()
	require.NoError(t, rows.Err())

	refunds, err := l.refunds.ListByPayment(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, refunds, n)
	listed := make([]string, 0, n)
	for i, r := range refunds {
		listed = append(listed, r.ID.String())
		if i > 0 {
			assert.True(t, r.InsertedAt.After(refunds[i-1].InsertedAt), "inserted_at strictly increases")
		}
	}
	assert.Equal(t, committed, listed)
}

func TestOutboxRowsWrittenWithLedger(t *testing.T) {
	l := newLedger()
	p := l.pay(t, 300, domain.StatusApproved)
	_, err := l.refunds.Create(context.Background(), p.ID, 100)
	require.NoError(t, err)
	_, err = l.refunds.Create(context.Background(), p.ID, 500)
	require.Error(t, err)

	rows, err := pool.Query(context.Background(),
		`SELECT type FROM outbox WHERE aggregate_id = $1 ORDER BY id`, p.ID.String())
	require.NoError(t, err)
	defer rows.Close()

	var types []string
	for rows.Next() {
		var typ string
		require.NoError(t, rows.Scan(&typ))
		types = append(types, typ)
	}
	assert.Equal(t, []string{domain.EventPaymentCreated, domain.EventRefundCreated}, types)
}

func TestRelayPublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	l := newLedger()
	p := l.pay(t, 750, domain.StatusApproved)

	topic := "payment.events." + uuid.NewString()[:8]
	writer := paymentkafka.NewWriter(env.KAddr)
	defer writer.Close()

	store := postgres.NewOutboxStore(log, pool)
	relay := outbox.NewRelay(log, store, outbox.NewDispatcher(log, writer, topic), "relay-it", outbox.WithBatchSize(500))

	require.Eventually(t, func() bool {
		_, err := relay.Tick(ctx)
		if err != nil {
			return false
		}
		var status string
		err = pool.QueryRow(ctx, `SELECT status FROM outbox WHERE aggregate_id = $1 AND type = $2`,
			p.ID.String(), domain.EventPaymentCreated).Scan(&status)
		return err == nil && status == string(outbox.StatusSent)
	}, 45*time.Second, 500*time.Millisecond)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: env.KAddr, Topic: topic, MaxWait: time.Second})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err)
		if string(msg.Key) != p.ID.String() {
			continue
		}
		ev, err := paymentkafka.Decode(msg)
		require.NoError(t, err)
		require.NotNil(t, ev.Payment)
		assert.Equal(t, p.ID, ev.Payment.PaymentID)
		assert.Equal(t, int32(750), ev.Payment.Amount)
		return
	}
}

func TestOutboxLeaseExpiry(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	p := l.pay(t, 10, domain.StatusApproved)
	store := postgres.NewOutboxStore(log, pool)

	var id int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT id FROM outbox WHERE aggregate_id = $1`, p.ID.String()).Scan(&id))
	_, err := pool.Exec(ctx, `UPDATE outbox SET status = 'in_progress', relay_id = 'crashed', lease_until = now() - interval '1 second' WHERE id = $1`, id)
	require.NoError(t, err)

	events, err := store.LockBatch(ctx, "relay-lease", 1000, time.Second)
	require.NoError(t, err)

	var found bool
	for _, ev := range events {
		found = found || ev.ID == id
	}
	assert.True(t, found, "expired lease is picked up again")

	require.NoError(t, store.MarkFailed(ctx, id, "broker down", true))
	var status string
	var retries int
	require.NoError(t, pool.QueryRow(ctx, `SELECT status, retry_count FROM outbox WHERE id = $1`, id).Scan(&status, &retries))
	assert.Equal(t, string(outbox.StatusPending), status)
	assert.Equal(t, 1, retries)
}
