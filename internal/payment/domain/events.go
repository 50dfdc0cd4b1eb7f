package domain

import "github.com/google/uuid"

const (
	EventPaymentCreated = "PaymentCreated"
	EventRefundCreated  = "RefundCreated"
)

type PaymentCreated struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Amount    int32     `json:"amount"`
	Status    Status    `json:"status"`
}

type RefundCreated struct {
	RefundID  uuid.UUID `json:"refund_id"`
	PaymentID uuid.UUID `json:"payment_id"`
	Amount    int32     `json:"amount"`
}
