package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/courseflow/courseflow/internal/audit"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// QueueAudit carries queued audit records.
	QueueAudit = "audit"

	// TaskAuditPersist writes one queued audit record to Postgres.
	TaskAuditPersist = "audit:persist"
	// TaskAuditRetention prunes audit records past the retention window.
	TaskAuditRetention = "audit:retention"
)

// AuditRetentionPayload configures one retention run.
type AuditRetentionPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditPersistTask wraps rec in a task. The record ID doubles as the task
// ID so duplicate submissions collapse in the queue.
func NewAuditPersistTask(rec audit.Record) (*asynq.Task, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode audit record: %w", err)
	}
	return asynq.NewTask(TaskAuditPersist, data, asynq.Queue(QueueAudit), asynq.TaskID(rec.ID), asynq.MaxRetry(5)), nil
}

// NewAuditRetentionTask constructs the retention task.
func NewAuditRetentionTask(retentionDays int) (*asynq.Task, error) {
	if retentionDays <= 0 {
		return nil, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}
	data, err := json.Marshal(AuditRetentionPayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}
