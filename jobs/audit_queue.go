package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/courseflow/courseflow/internal/audit"
	jobmetrics "github.com/courseflow/courseflow/internal/jobs"
)

// Enqueuer is the part of asynq.Client the queue sink needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSink hands audit records to the worker instead of writing them in
// the API process.
type QueueSink struct {
	client Enqueuer
}

// NewQueueSink constructs a QueueSink.
func NewQueueSink(client Enqueuer) *QueueSink {
	return &QueueSink{client: client}
}

// Persist enqueues rec. A record already queued under the same ID counts as
// delivered.
func (s *QueueSink) Persist(ctx context.Context, rec audit.Record) error {
	task, err := NewAuditPersistTask(rec)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue audit record: %w", err)
	}
	return nil
}

var _ audit.Sink = (*QueueSink)(nil)

// AuditPersistJob drains TaskAuditPersist into the store.
type AuditPersistJob struct {
	Sink    audit.Sink
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewAuditPersistJob initialises the persist handler.
func NewAuditPersistJob(sink audit.Sink, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditPersistJob {
	return &AuditPersistJob{Sink: sink, Logger: logger, Metrics: metrics}
}

// Handle persists one record. Undecodable payloads are not retried.
func (j *AuditPersistJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Sink == nil {
		return errors.New("audit persist: handler not configured")
	}
	var rec audit.Record
	if err := json.Unmarshal(t.Payload(), &rec); err != nil || rec.ID == "" {
		j.logger().Warn("discarding malformed audit task", slog.Any("error", err))
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskAuditPersist)
	defer func() {
		err = tracker.End(err)
	}()

	if err := j.Sink.Persist(ctx, rec); err != nil {
		j.logger().Error("persist audit record",
			slog.String("record_id", rec.ID),
			slog.String("entity", rec.Entity),
			slog.Any("error", err))
		return err
	}
	return nil
}

func (j *AuditPersistJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
