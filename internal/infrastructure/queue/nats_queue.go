// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package queue contains the NATS JetStream backed job queue.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/logging"
)

const (
	// StreamName is the JetStream stream backing the job queue.
	StreamName = "ADIOS_JOBS"
	// SubjectPrefix is the subject prefix for job messages.
	SubjectPrefix = "adios.jobs."
	// MsgIDHeader is the NATS header JetStream deduplicates on.
	MsgIDHeader = "Nats-Msg-Id"
	// ConsumerName is the durable consumer shared by the workers.
	ConsumerName = "adios-workers"

	// DuplicateWindow bounds queue-level deduplication by job name and
	// key. It must stay shorter than the tightest cron interval or
	// legitimate periodic ticks would be dropped as duplicates.
	DuplicateWindow = 10 * time.Second

	// DefaultConcurrency is the number of concurrent job workers.
	DefaultConcurrency = 8
)

// NatsQueue is a work-queue backed by a JetStream stream. Enqueueing the
// same job name and key twice inside the duplicate window collapses to a
// single delivery.
type NatsQueue struct {
	js          jetstream.JetStream
	handlers    map[string]domain.JobHandler
	concurrency int
}

// Ensure that NatsQueue implements the job queue interface
var _ domain.JobQueue = (*NatsQueue)(nil)

// NewNatsQueue creates a new job queue on the given JetStream context.
func NewNatsQueue(js jetstream.JetStream) *NatsQueue {
	return &NatsQueue{
		js:          js,
		handlers:    make(map[string]domain.JobHandler),
		concurrency: DefaultConcurrency,
	}
}

// EnsureStream creates or updates the backing work-queue stream.
func (q *NatsQueue) EnsureStream(ctx context.Context) error {
	_, err := q.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{SubjectPrefix + ">"},
		Retention:  jetstream.WorkQueuePolicy,
		Duplicates: DuplicateWindow,
	})
	if err != nil {
		return fmt.Errorf("creating job stream: %w", err)
	}
	return nil
}

// Register binds a handler to a job name. Registration must happen
// before Start.
func (q *NatsQueue) Register(name string, handler domain.JobHandler) {
	q.handlers[name] = handler
}

// Enqueue publishes a job. The message ID combines the job name and key
// so JetStream deduplicates concurrent submissions of the same work.
func (q *NatsQueue) Enqueue(ctx context.Context, job *domain.JobMessage) error {
	if job.Name == "" {
		return domain.NewValidationError("job is missing a name")
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	msg, err := buildJobMsg(job)
	if err != nil {
		return err
	}

	ack, err := q.js.PublishMsg(ctx, msg)
	if err != nil {
		return domain.NewUnavailableError("failed to publish job", err)
	}

	if ack.Duplicate {
		slog.DebugContext(ctx, "job deduplicated by queue",
			"job", job.Name, "key", job.Key, "origin", job.Origin)
		return nil
	}

	slog.DebugContext(ctx, "job enqueued",
		"job", job.Name, "key", job.Key, "origin", job.Origin)
	return nil
}

// buildJobMsg encodes the job and stamps the deduplication header.
func buildJobMsg(job *domain.JobMessage) (*nats.Msg, error) {
	data, err := msgpack.Marshal(job)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode job", err)
	}

	msg := &nats.Msg{
		Subject: SubjectPrefix + job.Name,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(MsgIDHeader, job.Name+":"+job.Key)
	return msg, nil
}

// Start runs the worker pool until the context is cancelled. Each worker
// pulls jobs from the shared durable consumer, so a job is processed by
// exactly one worker.
func (q *NatsQueue) Start(ctx context.Context) error {
	consumer, err := q.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: SubjectPrefix + ">",
		AckWait:       2 * time.Minute,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("creating job consumer: %w", err)
	}

	iter, err := consumer.Messages()
	if err != nil {
		return fmt.Errorf("opening job iterator: %w", err)
	}

	go func() {
		<-ctx.Done()
		iter.Stop()
	}()

	group, ctx := errgroup.WithContext(ctx)
	for range q.concurrency {
		group.Go(func() error {
			for {
				msg, err := iter.Next()
				if err != nil {
					if errors.Is(err, jetstream.ErrMsgIteratorClosed) {
						return nil
					}
					return err
				}
				q.process(ctx, msg)
			}
		})
	}

	return group.Wait()
}

// process dispatches a single message. Retriable handler failure
// requeues the job for redelivery, which is the queue's retry
// mechanism; failures that no retry can cure are dropped.
func (q *NatsQueue) process(ctx context.Context, msg jetstream.Msg) {
	var job domain.JobMessage
	if err := msgpack.Unmarshal(msg.Data(), &job); err != nil {
		slog.ErrorContext(ctx, "dropping undecodable job message",
			logging.ErrKey, err, "subject", msg.Subject())
		_ = msg.Term()
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("job", job.Name))
	ctx = logging.AppendCtx(ctx, slog.String("job_key", job.Key))

	handler, ok := q.handlers[job.Name]
	if !ok {
		slog.ErrorContext(ctx, "no handler registered for job", logging.PriorityCritical())
		_ = msg.Term()
		return
	}

	if err := handler(ctx, &job); err != nil {
		// Validation and not-found failures cannot succeed on a later
		// delivery; redelivering them only burns the retry budget.
		switch domain.GetErrorType(err) {
		case domain.ErrorTypeValidation, domain.ErrorTypeNotFound:
			slog.ErrorContext(ctx, "dropping job that cannot succeed", logging.ErrKey, err)
			_ = msg.Term()
		default:
			slog.ErrorContext(ctx, "job failed, requeueing", logging.ErrKey, err)
			_ = msg.Nak()
		}
		return
	}

	if err := msg.Ack(); err != nil {
		slog.WarnContext(ctx, "failed to ack job", logging.ErrKey, err)
	}
}
