package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type PaymentLedger interface {
	Create(ctx context.Context, amount int32, cardNumber string, status domain.Status) (domain.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Payment, error)
}

type RefundLedger interface {
	Create(ctx context.Context, paymentID uuid.UUID, amount int32) (domain.Refund, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Refund, error)
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.Refund, error)
}

type Handler struct {
	log      *slog.Logger
	payments PaymentLedger
	refunds  RefundLedger
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, payments PaymentLedger, refunds RefundLedger) *Handler {
	return &Handler{
		log:      log,
		payments: payments,
		refunds:  refunds,
		tracer:   otel.Tracer("payment-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)
	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/", h.createPayment)
		r.Get("/{id}", h.getPayment)
		r.Post("/{id}/refunds", h.createRefund)
		r.Get("/{id}/refunds", h.listRefunds)
		r.Get("/{id}/refunds/{refundID}", h.getRefund)
	})
	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r, "CreatePayment")
	defer span.End()

	var req createPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_body"})
		return
	}

	p, err := h.payments.Create(ctx, req.Payment.Amount, req.Payment.CardNumber, domain.StatusApproved)
	if err != nil {
		out := h.fail(span, err)
		writeEnvelope(w, statusCode(out.Class), paymentData{
			ID:         uuid.Nil,
			Amount:     req.Payment.Amount,
			CardNumber: req.Payment.CardNumber,
			Status:     out.Status,
		})
		return
	}
	writeEnvelope(w, http.StatusCreated, toPaymentData(p))
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r, "GetPayment")
	defer span.End()

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.payments.Get(ctx, id)
	if err != nil {
		h.lookupFailed(w, span, err)
		return
	}
	writeEnvelope(w, http.StatusOK, toPaymentData(p))
}

func (h *Handler) createRefund(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r, "CreateRefund")
	defer span.End()

	paymentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req createRefundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_body"})
		return
	}

	ref, err := h.refunds.Create(ctx, paymentID, req.Refund.Amount)
	if err != nil {
		out := h.fail(span, err)
		writeEnvelope(w, statusCode(out.Class), refundData{ID: uuid.Nil, Amount: req.Refund.Amount, PaymentID: paymentID})
		return
	}
	writeEnvelope(w, http.StatusCreated, toRefundData(ref))
}

func (h *Handler) listRefunds(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r, "ListRefunds")
	defer span.End()

	paymentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	refunds, err := h.refunds.ListByPayment(ctx, paymentID)
	if err != nil {
		h.lookupFailed(w, span, err)
		return
	}
	data := make([]refundData, 0, len(refunds))
	for _, ref := range refunds {
		data = append(data, toRefundData(ref))
	}
	writeEnvelope(w, http.StatusOK, data)
}

func (h *Handler) getRefund(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r, "GetRefund")
	defer span.End()

	paymentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	refundID, ok := pathID(w, r, "refundID")
	if !ok {
		return
	}
	ref, err := h.refunds.Get(ctx, refundID)
	if err == nil && ref.PaymentID != paymentID {
		err = domain.ErrRefundNotFound
	}
	if err != nil {
		h.lookupFailed(w, span, err)
		return
	}
	writeEnvelope(w, http.StatusOK, toRefundData(ref))
}

// start continues the caller's trace when the request carries one.
func (h *Handler) start(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return h.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
}

func (h *Handler) fail(span trace.Span, err error) domain.Outcome {
	kind := domain.KindOf(err)
	out := domain.OutcomeOf(kind)
	span.SetStatus(codes.Error, kind.String())
	if out.Class.ServerSide() {
		h.log.Error("request failed", "kind", kind.String(), "err", err)
	}
	return out
}

func (h *Handler) lookupFailed(w http.ResponseWriter, span trace.Span, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound), domain.IsKind(err, domain.KindPaymentNotFound):
		span.SetStatus(codes.Error, "not_found")
		writeJSON(w, http.StatusNotFound, errorBody{Error: domain.KindPaymentNotFound.String()})
	case errors.Is(err, domain.ErrRefundNotFound):
		span.SetStatus(codes.Error, "not_found")
		writeJSON(w, http.StatusNotFound, errorBody{Error: "refund_not_found"})
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.log.Error("lookup failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: domain.KindInternalError.String()})
	}
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_" + param})
		return uuid.Nil, false
	}
	return id, true
}

// statusCode is the HTTP rendering of a status class.
func statusCode(c domain.StatusClass) int {
	switch c {
	case domain.ClassBadInput:
		return http.StatusBadRequest
	case domain.ClassNoContent:
		return http.StatusNoContent
	case domain.ClassUnprocessable:
		return http.StatusUnprocessableEntity
	case domain.ClassPaymentRequired:
		return http.StatusPaymentRequired
	case domain.ClassForbidden:
		return http.StatusForbidden
	case domain.ClassNotFound:
		return http.StatusNotFound
	case domain.ClassServiceUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, envelope{Data: data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
