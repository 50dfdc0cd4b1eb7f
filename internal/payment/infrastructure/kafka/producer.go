package kafka

import (
	"github.com/segmentio/kafka-go"
)

// NewWriter returns a writer for the outbox dispatcher. Messages carry their
// own topic, so none is set here.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}
