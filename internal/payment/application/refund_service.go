package application

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/dmehra2102/payment-ledger/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RefundService owns refund creation and is the only path that changes a
// payment's refunded amount.
type RefundService struct {
	log    *slog.Logger
	repo   RefundRepository
	tracer trace.Tracer
}

func NewRefundService(log *slog.Logger, repo RefundRepository) *RefundService {
	return &RefundService{
		log:    log,
		repo:   repo,
		tracer: otel.Tracer("payment-ledger"),
	}
}

// Create refunds amount against an approved payment. A missing payment and a
// payment that was never approved both fail with KindPaymentNotFound.
func (s *RefundService) Create(ctx context.Context, paymentID uuid.UUID, amount int32) (domain.Refund, error) {
	ctx, span := s.tracer.Start(ctx, "RefundService.Create", trace.WithAttributes(
		attribute.String("payment_id", paymentID.String()),
		attribute.Int("amount", int(amount)),
	))
	defer span.End()

	if err := domain.ValidateAmount(amount); err != nil {
		span.SetStatus(codes.Error, domain.KindOf(err).String())
		return domain.Refund{}, err
	}

	r := domain.Refund{ID: uuid.New(), PaymentID: paymentID, Amount: amount}
	payload, err := json.Marshal(domain.RefundCreated{RefundID: r.ID, PaymentID: r.PaymentID, Amount: r.Amount})
	if err != nil {
		return domain.Refund{}, domain.NewFailure(domain.KindStorage, err)
	}
	ev := Event{
		Type:        domain.EventRefundCreated,
		Payload:     payload,
		Headers:     map[string]string{"source": "payment-ledger"},
		Traceparent: tracing.Traceparent(ctx),
	}

	saved, err := s.repo.CreateWithOutbox(ctx, r, ev)
	if err != nil {
		kind := domain.KindOf(err)
		span.SetStatus(codes.Error, kind.String())
		switch kind {
		case domain.KindPaymentNotFound, domain.KindExcessiveAmount:
			s.log.Info("refund rejected", "payment_id", paymentID, "kind", kind.String())
			return domain.Refund{}, err
		}
		span.RecordError(err)
		s.log.Error("refund failed", "payment_id", paymentID, "err", err)
		return domain.Refund{}, domain.NewFailure(domain.KindStorage, err)
	}

	s.log.Info("refund created", "refund_id", saved.ID, "payment_id", paymentID, "amount", amount)
	return saved, nil
}

func (s *RefundService) Get(ctx context.Context, id uuid.UUID) (domain.Refund, error) {
	ctx, span := s.tracer.Start(ctx, "RefundService.Get")
	defer span.End()

	return s.repo.Get(ctx, id)
}

// ListByPayment returns the refunds of a payment, oldest first.
func (s *RefundService) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.Refund, error) {
	ctx, span := s.tracer.Start(ctx, "RefundService.ListByPayment")
	defer span.End()

	return s.repo.ListByPayment(ctx, paymentID)
}
