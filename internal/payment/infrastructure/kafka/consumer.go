package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/dmehra2102/payment-ledger/pkg/tracing"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// LedgerEvent is a decoded message from the ledger's event topic. Exactly one
// of Payment and Refund is set.
type LedgerEvent struct {
	Type      string
	PaymentID string
	Partition int
	Offset    int64
	Payment   *domain.PaymentCreated
	Refund    *domain.RefundCreated
}

type Handler func(ctx context.Context, ev LedgerEvent) error

// Consumer reads ledger events as a member of a consumer group.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		tracer: otel.Tracer("payment-events-consumer"),
	}
}

// Run hands every message to handle until ctx is cancelled. Messages are
// committed after handling whether or not handle succeeded.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeLedgerEvent", trace.WithSpanKind(trace.SpanKindConsumer))

		if ev, err := Decode(msg); err != nil {
			span.RecordError(err)
			c.log.Error("ledger event decode failed", "offset", msg.Offset, "err", err)
		} else if err := handle(msgCtx, ev); err != nil {
			c.log.Error("ledger event handler failed", "type", ev.Type, "payment_id", ev.PaymentID, "err", err)
		}
		span.End()

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Error("commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

var ErrUnknownEvent = errors.New("unknown event type")

// Decode parses a message written by the outbox dispatcher.
func Decode(msg kafka.Message) (LedgerEvent, error) {
	ev := LedgerEvent{
		Type:      headerValue(msg.Headers, "event_type"),
		PaymentID: string(msg.Key),
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}
	switch ev.Type {
	case domain.EventPaymentCreated:
		ev.Payment = &domain.PaymentCreated{}
		if err := json.Unmarshal(msg.Value, ev.Payment); err != nil {
			return LedgerEvent{}, fmt.Errorf("decode %s: %w", ev.Type, err)
		}
	case domain.EventRefundCreated:
		ev.Refund = &domain.RefundCreated{}
		if err := json.Unmarshal(msg.Value, ev.Refund); err != nil {
			return LedgerEvent{}, fmt.Errorf("decode %s: %w", ev.Type, err)
		}
	default:
		return LedgerEvent{}, fmt.Errorf("%w %q", ErrUnknownEvent, ev.Type)
	}
	return ev, nil
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
