package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Writer accepts finished records. Submit must not block and must not fail
// the caller.
type Writer interface {
	Submit(rec Record)
}

// Pipeline wraps guarded operations and emits exactly one record per
// executed attempt.
type Pipeline struct {
	writer Writer
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewPipeline wires a Pipeline in front of writer.
func NewPipeline(writer Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		writer: writer,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Execute runs next and records its outcome. Calls without an actor or a
// resource are passed straight through. The error (or panic) from next is
// returned unchanged.
func (p *Pipeline) Execute(ctx context.Context, call Call, next func(context.Context) error) (err error) {
	if p == nil || call.ActorID == "" || call.Resource == "" {
		return next(ctx)
	}
	details := captureDetails(call)

	defer func() {
		if rec := recover(); rec != nil {
			p.emit(call, details, fmt.Errorf("panic: %v", rec))
			panic(rec)
		}
	}()

	err = next(ctx)
	outcome := err
	if outcome == nil && ctx.Err() != nil {
		outcome = ctx.Err()
	}
	p.emit(call, details, outcome)
	return err
}

// ActionFromKind maps an HTTP method or operation verb onto an Action.
// Unrecognised kinds are treated as reads.
func ActionFromKind(kind string) Action {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "post", "create":
		return ActionCreate
	case "put", "patch", "update":
		return ActionUpdate
	case "delete", "remove":
		return ActionDelete
	default:
		return ActionRead
	}
}

func captureDetails(call Call) map[string]any {
	return map[string]any{
		"method":     call.Kind,
		"path":       call.Path,
		"user_agent": call.UserAgent,
		"ip":         call.ClientIP,
		"params":     call.Params,
		"query":      call.Query,
		"body":       Sanitize(call.Body),
	}
}

func (p *Pipeline) emit(call Call, captured map[string]any, outcome error) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("audit submit panicked", slog.Any("panic", rec))
		}
	}()

	details := make(map[string]any, len(captured)+1)
	for k, v := range captured {
		details[k] = v
	}
	if outcome != nil {
		details["error"] = outcome.Error()
	} else {
		details["result"] = "success"
	}

	rec := Record{
		ID:        p.newID(),
		ActorID:   call.ActorID,
		Action:    ActionFromKind(call.Kind),
		Entity:    call.Resource,
		EntityID:  call.EntityID,
		Details:   details,
		Timestamp: p.now().UTC(),
		Success:   outcome == nil,
	}
	if p.writer == nil {
		p.logger.Warn("audit writer not configured", slog.String("entity", rec.Entity), slog.String("actor", rec.ActorID))
		return
	}
	p.writer.Submit(rec)
}
