package http

import (
	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/google/uuid"
)

type createPaymentReq struct {
	Payment struct {
		Amount     int32  `json:"amount"`
		CardNumber string `json:"card_number"`
	} `json:"payment"`
}

type createRefundReq struct {
	Refund struct {
		Amount int32 `json:"amount"`
	} `json:"refund"`
}

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

type paymentData struct {
	ID             uuid.UUID     `json:"id"`
	Amount         int32         `json:"amount"`
	RefundedAmount int32         `json:"refunded_amount"`
	CardNumber     string        `json:"card_number"`
	Status         domain.Status `json:"status"`
}

type refundData struct {
	ID        uuid.UUID `json:"id"`
	Amount    int32     `json:"amount"`
	PaymentID uuid.UUID `json:"payment_id"`
}

func toPaymentData(p domain.Payment) paymentData {
	return paymentData{
		ID:             p.ID,
		Amount:         p.Amount,
		RefundedAmount: p.RefundedAmount,
		CardNumber:     p.CardNumber,
		Status:         p.Status,
	}
}

func toRefundData(r domain.Refund) refundData {
	return refundData{ID: r.ID, Amount: r.Amount, PaymentID: r.PaymentID}
}
