// Package memory is an in-process ledger store. It enforces the same
// constraints as the Postgres schema (unique card number, refund foreign key,
// refunded amount never above the payment amount) under one mutex.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmehra2102/payment-ledger/internal/payment/application"
	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.Mutex
	payments map[uuid.UUID]domain.Payment
	cards    map[string]uuid.UUID
	refunds  map[uuid.UUID]domain.Refund
	events   []application.Event
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		payments: map[uuid.UUID]domain.Payment{},
		cards:    map[string]uuid.UUID{},
		refunds:  map[uuid.UUID]domain.Refund{},
		now:      time.Now,
	}
}

func (s *Store) Payments() *PaymentStore { return &PaymentStore{s} }
func (s *Store) Refunds() *RefundStore   { return &RefundStore{s} }

// Events returns the outbox events written so far.
func (s *Store) Events() []application.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]application.Event(nil), s.events...)
}

type PaymentStore struct{ *Store }

func (s *PaymentStore) CreateWithOutbox(_ context.Context, p domain.Payment, ev application.Event) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.cards[p.CardNumber]; taken {
		return domain.Payment{}, domain.NewFailure(domain.KindDuplicatedInstrument, nil)
	}
	now := s.now()
	p.RefundedAmount = 0
	p.InsertedAt, p.UpdatedAt = now, now
	s.payments[p.ID] = p
	s.cards[p.CardNumber] = p.ID
	s.events = append(s.events, ev)
	return p, nil
}

func (s *PaymentStore) Get(_ context.Context, id uuid.UUID) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, nil
}

type RefundStore struct{ *Store }

func (s *RefundStore) CreateWithOutbox(_ context.Context, r domain.Refund, ev application.Event) (domain.Refund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[r.PaymentID]
	if !ok || p.Status != domain.StatusApproved {
		return domain.Refund{}, domain.NewFailure(domain.KindPaymentNotFound, nil)
	}
	if r.Amount > p.RemainingRefundable() {
		return domain.Refund{}, domain.NewFailure(domain.KindExcessiveAmount, nil)
	}

	now := s.now()
	p.RefundedAmount += r.Amount
	p.UpdatedAt = now
	r.InsertedAt, r.UpdatedAt = now, now
	s.payments[p.ID] = p
	s.refunds[r.ID] = r
	s.events = append(s.events, ev)
	return r, nil
}

func (s *RefundStore) Get(_ context.Context, id uuid.UUID) (domain.Refund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.refunds[id]
	if !ok {
		return domain.Refund{}, domain.ErrRefundNotFound
	}
	return r, nil
}

func (s *RefundStore) ListByPayment(_ context.Context, paymentID uuid.UUID) ([]domain.Refund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[paymentID]; !ok {
		return nil, domain.ErrPaymentNotFound
	}
	out := []domain.Refund{}
	for _, r := range s.refunds {
		if r.PaymentID == paymentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InsertedAt.Equal(out[j].InsertedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].InsertedAt.Before(out[j].InsertedAt)
	})
	return out, nil
}
