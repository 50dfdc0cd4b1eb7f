package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/dmehra2102/payment-ledger/pkg/outbox"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureProducer struct {
	msgs []kafka.Message
}

func (p *captureProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestDecodeDispatchedEvents(t *testing.T) {
	paymentID := uuid.New()
	refundID := uuid.New()
	payPayload, _ := json.Marshal(domain.PaymentCreated{PaymentID: paymentID, Amount: 1205, Status: domain.StatusApproved})
	refPayload, _ := json.Marshal(domain.RefundCreated{RefundID: refundID, PaymentID: paymentID, Amount: 200})

	producer := &captureProducer{}
	d := outbox.NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), producer, "payment.events")
	require.NoError(t, d.Dispatch(context.Background(), outbox.Event{ID: 1, AggregateID: paymentID.String(), Type: domain.EventPaymentCreated, Payload: payPayload}))
	require.NoError(t, d.Dispatch(context.Background(), outbox.Event{ID: 2, AggregateID: paymentID.String(), Type: domain.EventRefundCreated, Payload: refPayload}))
	require.Len(t, producer.msgs, 2)

	ev, err := Decode(producer.msgs[0])
	require.NoError(t, err)
	assert.Equal(t, domain.EventPaymentCreated, ev.Type)
	assert.Equal(t, paymentID.String(), ev.PaymentID)
	require.NotNil(t, ev.Payment)
	assert.Equal(t, int32(1205), ev.Payment.Amount)
	assert.Nil(t, ev.Refund)

	ev, err = Decode(producer.msgs[1])
	require.NoError(t, err)
	require.NotNil(t, ev.Refund)
	assert.Equal(t, refundID, ev.Refund.RefundID)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode(kafka.Message{Headers: []kafka.Header{{Key: "event_type", Value: []byte("OrderCreated")}}})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode(kafka.Message{Value: []byte("{"), Headers: []kafka.Header{{Key: "event_type", Value: []byte(domain.EventRefundCreated)}}})
	assert.Error(t, err)
}
