package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/courseflow/courseflow/internal/jobs"
)

// Pruner removes audit records older than a cutoff.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRetentionJob enforces the audit retention window.
type AuditRetentionJob struct {
	Store   Pruner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAuditRetentionJob initialises the retention handler.
func NewAuditRetentionJob(store Pruner, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditRetentionJob {
	return &AuditRetentionJob{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle deletes every record older than the configured number of days.
func (j *AuditRetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("audit retention: handler not configured")
	}
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.RetentionDays <= 0 {
		return asynq.SkipRetry
	}

	start := j.clock()
	tracker := j.Metrics.Track(TaskAuditRetention)
	cutoff := start.AddDate(0, 0, -payload.RetentionDays)
	logger := j.logger().With(slog.Int("retention_days", payload.RetentionDays), slog.Time("cutoff", cutoff))

	removed, err := j.Store.DeleteBefore(ctx, cutoff)
	if err != nil {
		logger.Error("audit retention failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddPruned("audit_logs", removed)
	logger.Info("audit retention completed",
		slog.Int64("removed", removed),
		slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}

func (j *AuditRetentionJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
