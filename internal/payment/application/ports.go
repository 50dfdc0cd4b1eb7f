package application

import (
	"context"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/google/uuid"
)

// Event is written to the outbox in the same transaction as the row it
// describes.
type Event struct {
	Type        string
	Payload     []byte
	Headers     map[string]string
	Traceparent string
}

type PaymentRepository interface {
	// CreateWithOutbox inserts p and fails with KindDuplicatedInstrument when
	// the card number is already taken.
	CreateWithOutbox(ctx context.Context, p domain.Payment, ev Event) (domain.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Payment, error)
}

type RefundRepository interface {
	// CreateWithOutbox records r and bumps the payment's refunded amount as one
	// atomic unit. It fails with KindPaymentNotFound when the payment is missing
	// or not approved, and with KindExcessiveAmount when r would over-refund it.
	CreateWithOutbox(ctx context.Context, r domain.Refund, ev Event) (domain.Refund, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Refund, error)
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.Refund, error)
}

// AccountService is the bank that holds the customer's funds.
type AccountService interface {
	PlaceHold(ctx context.Context, cardNumber string, amount int32) (domain.HoldRef, error)
	ReleaseHold(ctx context.Context, ref domain.HoldRef) error
}
