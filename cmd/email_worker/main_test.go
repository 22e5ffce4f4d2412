package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gitsandu/taskmanagementBackend/pkg/mailer"
)

type ackRecorder struct {
	acked    int
	nacked   int
	requeued int
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	if requeue {
		a.requeued++
	}
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error { return a.Nack(0, false, requeue) }

type fakeSender struct {
	err  error
	sent int
}

func (f *fakeSender) Send(context.Context, string, string, string, string) error {
	f.sent++
	return f.err
}

func delivery(t *testing.T, ack amqp.Acknowledger, body any, redelivered bool) amqp.Delivery {
	t.Helper()
	b, ok := body.([]byte)
	if !ok {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: b, Redelivered: redelivered}
}

func TestHandle(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()
	job := mailer.EmailJob{To: "a@example.com", Subject: "hi", Text: "hello"}

	t.Run("sent is acked", func(t *testing.T) {
		ack, s := &ackRecorder{}, &fakeSender{}
		handle(ctx, logger, s, delivery(t, ack, job, false))
		assert.Equal(t, 1, s.sent)
		assert.Equal(t, 1, ack.acked)
		assert.Zero(t, ack.nacked)
	})

	t.Run("malformed body is dropped", func(t *testing.T) {
		ack, s := &ackRecorder{}, &fakeSender{}
		handle(ctx, logger, s, delivery(t, ack, []byte("{nope"), false))
		assert.Zero(t, s.sent)
		assert.Equal(t, 1, ack.nacked)
		assert.Zero(t, ack.requeued)
	})

	t.Run("unknown template is dropped", func(t *testing.T) {
		ack, s := &ackRecorder{}, &fakeSender{}
		handle(ctx, logger, s, delivery(t, ack, mailer.EmailJob{To: "a@example.com", Template: "nope"}, false))
		assert.Zero(t, s.sent)
		assert.Equal(t, 1, ack.nacked)
		assert.Zero(t, ack.requeued)
	})

	t.Run("first send failure is requeued", func(t *testing.T) {
		ack, s := &ackRecorder{}, &fakeSender{err: errors.New("mailgun down")}
		handle(ctx, logger, s, delivery(t, ack, job, false))
		assert.Equal(t, 1, ack.requeued)
	})

	t.Run("failure on redelivery is dropped", func(t *testing.T) {
		ack, s := &ackRecorder{}, &fakeSender{err: errors.New("mailgun down")}
		handle(ctx, logger, s, delivery(t, ack, job, true))
		assert.Equal(t, 1, s.sent)
		assert.Equal(t, 1, ack.nacked)
		assert.Zero(t, ack.requeued)
		assert.Zero(t, ack.acked)
	})
}
