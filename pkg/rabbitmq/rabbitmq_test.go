package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pasar/internal/logging"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	routingKey string
	deliveries chan amqp.Delivery
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.routingKey = key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestNewClient_DeclaresDefaultQueue(t *testing.T) {
	ch := &fakeChannel{}
	c, err := newClient(ch, "", logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultQueue}, ch.declared)

	require.NoError(t, c.Close())
	assert.True(t, ch.closed)
}

func TestClient_Publish(t *testing.T) {
	ch := &fakeChannel{}
	c, err := newClient(ch, "mail", logging.Nop())
	require.NoError(t, err)

	require.NoError(t, c.Publish(context.Background(), "a@x.com", []byte(`{"kind":"welcome"}`)))
	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "mail", ch.routingKey)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "a@x.com", msg.Headers["key"])
	assert.JSONEq(t, `{"kind":"welcome"}`, string(msg.Body))
}

func TestClient_PublishErrors(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	c, err := newClient(ch, "mail", logging.Nop())
	require.NoError(t, err)

	assert.Error(t, c.Publish(context.Background(), "k", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Publish(ctx, "k", nil), context.Canceled)
}

func TestClient_ConsumeAcksAndDrops(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 2)}
	c, err := newClient(ch, "mail", logging.Nop())
	require.NoError(t, err)

	ack := &fakeAcknowledger{}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}
	close(ch.deliveries)

	var seen []string
	err = c.Consume(context.Background(), func(_ context.Context, body []byte) error {
		seen = append(seen, string(body))
		if string(body) == "bad" {
			return errors.New("undeliverable")
		}
		return nil
	})
	assert.Error(t, err) // delivery channel closed

	assert.Equal(t, []string{"ok", "bad"}, seen)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.Equal(t, []bool{false}, ack.requeue)
}

func TestClient_ConsumeStopsOnCancel(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	c, err := newClient(ch, "mail", logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Consume(ctx, func(context.Context, []byte) error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
