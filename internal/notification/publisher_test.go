package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	n := Notification{
		ID:        uuid.New(),
		Type:      TypeOrderReady,
		Title:     "Order ready",
		Message:   "ready",
		OrderID:   orderID,
		CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		w := &fakeWriter{}
		p := &KafkaPublisher{writer: w, topic: "notifications"}

		err := p.Publish(ctx, []Notification{n})

		require.NoError(t, err)
		require.Len(t, w.msgs, 1)
		assert.Equal(t, orderID.String(), string(w.msgs[0].Key))
		assert.Equal(t, "type", w.msgs[0].Headers[0].Key)
		assert.Equal(t, string(TypeOrderReady), string(w.msgs[0].Headers[0].Value))

		var decoded Notification
		require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
		assert.Equal(t, n.ID, decoded.ID)
	})

	t.Run("Empty", func(t *testing.T) {
		w := &fakeWriter{}
		p := &KafkaPublisher{writer: w, topic: "notifications"}

		assert.NoError(t, p.Publish(ctx, nil))
		assert.Empty(t, w.msgs)
	})

	t.Run("WriterError", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("no brokers")}
		p := &KafkaPublisher{writer: w, topic: "notifications"}

		err := p.Publish(ctx, []Notification{n})

		assert.ErrorContains(t, err, "notifications")
	})

	t.Run("Close", func(t *testing.T) {
		w := &fakeWriter{}
		p := &KafkaPublisher{writer: w, topic: "notifications"}

		assert.NoError(t, p.Close())
		assert.True(t, w.closed)
	})
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), []Notification{{}}))
}
