package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

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

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestNewProducer_FlushesPromptly(t *testing.T) {
	t.Parallel()

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, batchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
}

func TestPublishEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), "cart_events", "owner-1", map[string]any{"type": "cart_updated"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "cart_events", msg.Topic)
	assert.Equal(t, "owner-1", string(msg.Key))

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "cart_updated", event["type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	t.Parallel()

	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.PublishEvent(context.Background(), "cart_events", "k", map[string]any{"type": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	err = p.PublishEvent(context.Background(), "cart_events", "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}
