package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrRefundNotFound = errors.New("refund not found")

// Refund is immutable once written. A persisted refund is effective: the
// customer has been credited.
type Refund struct {
	ID         uuid.UUID
	PaymentID  uuid.UUID
	Amount     int32
	InsertedAt time.Time
	UpdatedAt  time.Time
}
