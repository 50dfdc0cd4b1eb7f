package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusDeclined   Status = "declined"
	StatusFailed     Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusApproved, StatusDeclined, StatusFailed:
		return true
	}
	return false
}

var ErrPaymentNotFound = errors.New("payment not found")

// InstrumentLength is the number of digits a card number must have.
const InstrumentLength = 15

var instrumentPattern = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, InstrumentLength))

// Payment is a persisted authorization. Once stored as approved the merchant
// is guaranteed to receive the funds.
type Payment struct {
	ID             uuid.UUID
	Amount         int32
	RefundedAmount int32
	CardNumber     string
	Status         Status
	InsertedAt     time.Time
	UpdatedAt      time.Time
}

// RemainingRefundable is the amount that can still be refunded. It is never
// negative for a stored payment.
func (p Payment) RemainingRefundable() int32 {
	return p.Amount - p.RefundedAmount
}

func (p Payment) Refundable() bool {
	return p.Status == StatusApproved && p.RefundedAmount < p.Amount
}

// ValidatePayment runs the local checks that must pass before the account
// service is contacted.
func ValidatePayment(amount int32, cardNumber string) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !instrumentPattern.MatchString(cardNumber) {
		return NewFailure(KindInvalidInstrumentFormat, nil)
	}
	return nil
}

func ValidateAmount(amount int32) error {
	switch {
	case amount < 0:
		return NewFailure(KindNegativeAmount, nil)
	case amount == 0:
		return NewFailure(KindZeroAmount, nil)
	}
	return nil
}
