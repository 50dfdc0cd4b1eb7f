package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmehra2102/payment-ledger/internal/payment/application"
	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"

	cardNumberIndex  = "payments_card_number_index"
	refundsPaymentFK = "refunds_payment_id_fkey"
	paymentColumns   = `id, amount, refunded_amount, card_number, status, inserted_at, updated_at`
	refundColumns    = `id, payment_id, amount, inserted_at, updated_at`
	aggregatePayment = "payment"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Payments and Refunds expose the repository through the two ledger ports.
func (r *Repository) Payments() *PaymentRepository { return &PaymentRepository{r} }
func (r *Repository) Refunds() *RefundRepository   { return &RefundRepository{r} }

type PaymentRepository struct{ *Repository }

func (r *PaymentRepository) CreateWithOutbox(ctx context.Context, p domain.Payment, ev application.Event) (domain.Payment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Payment{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		INSERT INTO payments (id, amount, card_number, status, inserted_at, updated_at)
		VALUES ($1, $2, $3, $4, clock_timestamp(), clock_timestamp())
		RETURNING `+paymentColumns,
		p.ID, p.Amount, p.CardNumber, string(p.Status))
	saved, err := scanPayment(row)
	if err != nil {
		if isConstraint(err, codeUniqueViolation, cardNumberIndex) {
			return domain.Payment{}, domain.NewFailure(domain.KindDuplicatedInstrument, err)
		}
		return domain.Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	if err := insertOutbox(ctx, tx, saved.ID, ev); err != nil {
		return domain.Payment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Payment{}, err
	}
	return saved, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

type RefundRepository struct{ *Repository }

// CreateWithOutbox raises the payment's refunded amount with a single
// conditional UPDATE and then inserts the refund. The row lock taken by that
// UPDATE serialises concurrent refunds of one payment, and the WHERE clause is
// re-evaluated against the committed row, so the conservation check and the
// write cannot be separated by another refund. The refund is stamped with
// clock_timestamp() while the lock is held, so inserted_at follows the order
// in which refunds of a payment commit.
func (r *RefundRepository) CreateWithOutbox(ctx context.Context, ref domain.Refund, ev application.Event) (domain.Refund, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Refund{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `
		UPDATE payments
		   SET refunded_amount = refunded_amount + $1, updated_at = clock_timestamp()
		 WHERE id = $2
		   AND status = $3
		   AND refunded_amount::bigint + $1 <= amount`,
		ref.Amount, ref.PaymentID, string(domain.StatusApproved))
	if err != nil {
		return domain.Refund{}, fmt.Errorf("apply refund: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.Refund{}, r.classifyRejected(ctx, tx, ref.PaymentID)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO refunds (id, payment_id, amount, inserted_at, updated_at)
		VALUES ($1, $2, $3, clock_timestamp(), clock_timestamp())
		RETURNING `+refundColumns,
		ref.ID, ref.PaymentID, ref.Amount)
	saved, err := scanRefund(row)
	if err != nil {
		if isConstraint(err, codeForeignKeyViolation, refundsPaymentFK) {
			return domain.Refund{}, domain.NewFailure(domain.KindPaymentNotFound, nil)
		}
		return domain.Refund{}, fmt.Errorf("insert refund: %w", err)
	}

	if err := insertOutbox(ctx, tx, ref.PaymentID, ev); err != nil {
		return domain.Refund{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Refund{}, err
	}
	return saved, nil
}

// classifyRejected explains why the conditional update matched no row. A
// payment's status never changes after creation, so reading it afterwards is
// race free.
func (r *RefundRepository) classifyRejected(ctx context.Context, tx pgx.Tx, paymentID uuid.UUID) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM payments WHERE id = $1`, paymentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewFailure(domain.KindPaymentNotFound, nil)
	}
	if err != nil {
		return fmt.Errorf("read payment status: %w", err)
	}
	if domain.Status(status) != domain.StatusApproved {
		return domain.NewFailure(domain.KindPaymentNotFound, nil)
	}
	return domain.NewFailure(domain.KindExcessiveAmount, nil)
}

func (r *RefundRepository) Get(ctx context.Context, id uuid.UUID) (domain.Refund, error) {
	ref, err := scanRefund(r.pool.QueryRow(ctx, `SELECT `+refundColumns+` FROM refunds WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Refund{}, domain.ErrRefundNotFound
	}
	if err != nil {
		return domain.Refund{}, fmt.Errorf("get refund: %w", err)
	}
	return ref, nil
}

func (r *RefundRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.Refund, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, paymentID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check payment: %w", err)
	}
	if !exists {
		return nil, domain.ErrPaymentNotFound
	}

	rows, err := r.pool.Query(ctx, `SELECT `+refundColumns+` FROM refunds WHERE payment_id = $1 ORDER BY inserted_at, id`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	refunds := []domain.Refund{}
	for rows.Next() {
		ref, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, ref)
	}
	return refunds, rows.Err()
}

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	var status string
	if err := row.Scan(&p.ID, &p.Amount, &p.RefundedAmount, &p.CardNumber, &status, &p.InsertedAt, &p.UpdatedAt); err != nil {
		return domain.Payment{}, err
	}
	p.Status = domain.Status(status)
	return p, nil
}

func scanRefund(row pgx.Row) (domain.Refund, error) {
	var ref domain.Refund
	if err := row.Scan(&ref.ID, &ref.PaymentID, &ref.Amount, &ref.InsertedAt, &ref.UpdatedAt); err != nil {
		return domain.Refund{}, err
	}
	return ref, nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, paymentID uuid.UUID, ev application.Event) error {
	headers := ev.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')`,
		aggregatePayment, paymentID.String(), ev.Type, ev.Payload, headers, ev.Traceparent)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

// isConstraint reports whether err is a Postgres error with the given SQLSTATE
// raised by the named constraint.
func isConstraint(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraint
}
