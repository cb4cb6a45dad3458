// Package queue is the ingest queue (C3): an unbounded, multi-producer
// single-consumer buffer between the validator/minter (C1) and the batch
// flusher (C4). Push never blocks or fails; a receive on the channel
// Subscribe returns suspends until a record is available or the context is
// cancelled.
//
// Built on github.com/ThreeDotsLabs/watermill's gochannel transport — the
// teacher's own in-process event pipeline — without its NATS backend: C3
// is scoped to a single process, so the in-memory Pub/Sub is sufficient
// and avoids standing up an external broker for a queue nothing outside
// the process needs to see.
package queue

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/rinhabackend/pessoas-api/internal/logging"
	"github.com/rinhabackend/pessoas-api/internal/models"
)

// JSONCodec is the production codec: goccy/go-json, the same encoder the
// HTTP handlers use for request/response bodies.
type JSONCodec struct{}

// Marshal implements codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements codec.
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

const topic = "pessoas.ingest"

// Queue is the C3 ingest queue.
type Queue struct {
	pubsub *gochannel.GoChannel
	codec  codec
	events *logging.EventLogger
}

// codec is the subset of goccy/go-json this package needs, kept narrow so
// it's trivially swappable in tests.
type codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// New builds an in-process ingest queue. bufferSize sizes the publish-side
// channel generously so Push never blocks in practice, matching spec.md's
// "push never blocks" contract even though gochannel's underlying channel
// is technically bounded.
func New(bufferSize int, c codec) *Queue {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            int64(bufferSize),
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, watermill.NewSlogLogger(logging.NewSlogLogger()))

	return &Queue{pubsub: pubsub, codec: c, events: logging.NewEventLogger()}
}

// Push enqueues a validated, ID-bearing record. It never blocks and never
// fails on a healthy queue; an error here indicates the queue itself has
// been closed and is a programmer error (pushing after Close).
func (q *Queue) Push(rec models.Record) error {
	payload, err := q.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("queue: marshal record: %w", err)
	}

	msg := message.NewMessage(rec.ID, payload)
	if err := q.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("queue: publish: %w", err)
	}
	q.events.LogRecordPushed(context.Background(), rec.ID)
	return nil
}

// Subscribe returns a channel the flusher reads from. Receiving suspends
// the caller until a record is available or ctx is cancelled.
func (q *Queue) Subscribe(ctx context.Context) (<-chan models.Record, error) {
	msgs, err := q.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("queue: subscribe: %w", err)
	}
	q.events.LogSubscriptionStarted()

	out := make(chan models.Record)
	go func() {
		defer close(out)
		defer q.events.LogSubscriptionStopped()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var rec models.Record
				if err := q.codec.Unmarshal(msg.Payload, &rec); err != nil {
					q.events.LogRecordDropped(ctx, err)
					msg.Ack()
					continue
				}
				msg.Ack()
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close releases the underlying Pub/Sub resources.
func (q *Queue) Close() error {
	return q.pubsub.Close()
}
