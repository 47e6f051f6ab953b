package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher fans persisted notifications out to push/staff-device
// gateways. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, notifications []Notification) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1, // at-most-once
	}

	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish writes one message per notification keyed by order id, so all
// events of an order land on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(notifications))
	for _, n := range notifications {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to serialize notification: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(n.OrderID.String()),
			Value:   data,
			Time:    n.CreatedAt,
			Headers: []kafka.Header{{Key: "type", Value: []byte(n.Type)}},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish notifications to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []Notification) error { return nil }
