package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/dmehra2102/payment-ledger/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PaymentService owns payment creation. It is the only writer of payment rows
// apart from the refunded amount.
type PaymentService struct {
	log      *slog.Logger
	repo     PaymentRepository
	accounts AccountService
	tracer   trace.Tracer
}

func NewPaymentService(log *slog.Logger, repo PaymentRepository, accounts AccountService) *PaymentService {
	return &PaymentService{
		log:      log,
		repo:     repo,
		accounts: accounts,
		tracer:   otel.Tracer("payment-ledger"),
	}
}

// Create validates the request, places a hold for the amount and records the
// payment with the given status. Inputs are checked before the account
// service is called. If the hold succeeds but the payment cannot be stored,
// the hold is released before the failure is returned.
func (s *PaymentService) Create(ctx context.Context, amount int32, cardNumber string, status domain.Status) (domain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.Create", trace.WithAttributes(attribute.Int("amount", int(amount))))
	defer span.End()

	if !status.Valid() {
		err := domain.NewFailure(domain.KindInternalError, fmt.Errorf("invalid payment status %q", status))
		s.reject(span, err)
		return domain.Payment{}, err
	}
	if err := domain.ValidatePayment(amount, cardNumber); err != nil {
		s.reject(span, err)
		return domain.Payment{}, err
	}

	hold, err := s.accounts.PlaceHold(ctx, cardNumber, amount)
	if err != nil {
		err = accountFailure(err)
		s.reject(span, err)
		return domain.Payment{}, err
	}

	p := domain.Payment{
		ID:         uuid.New(),
		Amount:     amount,
		CardNumber: cardNumber,
		Status:     status,
	}
	payload, err := json.Marshal(domain.PaymentCreated{PaymentID: p.ID, Amount: p.Amount, Status: p.Status})
	if err != nil {
		s.releaseHold(ctx, hold)
		return domain.Payment{}, domain.NewFailure(domain.KindStorage, err)
	}
	ev := Event{
		Type:        domain.EventPaymentCreated,
		Payload:     payload,
		Headers:     map[string]string{"source": "payment-ledger"},
		Traceparent: tracing.Traceparent(ctx),
	}

	saved, err := s.repo.CreateWithOutbox(ctx, p, ev)
	if err != nil {
		s.releaseHold(ctx, hold)
		if !domain.IsKind(err, domain.KindDuplicatedInstrument) {
			err = domain.NewFailure(domain.KindStorage, err)
		}
		s.reject(span, err)
		return domain.Payment{}, err
	}

	s.log.Info("payment created", "payment_id", saved.ID, "status", saved.Status, "hold", hold.String())
	return saved, nil
}

func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.Get")
	defer span.End()

	return s.repo.Get(ctx, id)
}

// releaseHold runs the compensating action for a hold whose payment was never
// stored. Its outcome never replaces the original failure.
func (s *PaymentService) releaseHold(ctx context.Context, hold domain.HoldRef) {
	if err := s.accounts.ReleaseHold(context.WithoutCancel(ctx), hold); err != nil {
		s.log.Error("hold release failed", "hold", hold.String(), "err", err)
		return
	}
	s.log.Info("hold released", "hold", hold.String())
}

func (s *PaymentService) reject(span trace.Span, err error) {
	kind := domain.KindOf(err)
	span.SetStatus(codes.Error, kind.String())
	if domain.OutcomeOf(kind).Class.ServerSide() {
		span.RecordError(err)
		s.log.Error("payment failed", "kind", kind.String(), "err", err)
		return
	}
	s.log.Info("payment declined", "kind", kind.String())
}

// accountFailure turns an account service error into a ledger failure. Errors
// that are not AccountErrors are reported as internal errors.
func accountFailure(err error) error {
	var accErr *domain.AccountError
	if errors.As(err, &accErr) {
		return domain.NewFailure(accErr.Kind, err)
	}
	return domain.NewFailure(domain.KindInternalError, err)
}
