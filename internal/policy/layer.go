// Package policy binds operation declarations to the authorization gate and
// the audit capture pipeline.
package policy

import (
	"net/http"

	"github.com/courseflow/courseflow/internal/audit"
	"github.com/courseflow/courseflow/internal/rbac"
)

// Layer registers guarded operations and builds the middleware chain that
// enforces them.
type Layer struct {
	gate     *rbac.Gate
	pipeline *audit.Pipeline
}

// NewLayer constructs a Layer. A nil pipeline disables audit capture.
func NewLayer(gate *rbac.Gate, pipeline *audit.Pipeline) *Layer {
	return &Layer{gate: gate, pipeline: pipeline}
}

// Protect declares meta for op and returns middleware that runs the gate
// first and audits only the requests that pass it. Denied requests never
// produce a record. Role-only declarations carry no resource and are gated
// without capture.
func (l *Layer) Protect(op string, meta rbac.OperationMeta) func(http.Handler) http.Handler {
	l.gate.Registry().MustRegister(op, meta)
	guard := l.gate.Guard(op)
	capture := l.pipeline.Middleware(meta.Resource)
	return func(next http.Handler) http.Handler {
		return guard(capture(next))
	}
}

// Authorizer exposes the authorizer behind the gate.
func (l *Layer) Authorizer() *rbac.Authorizer {
	return l.gate.Authorizer()
}

// Protector is the subset of Layer route setup code depends on.
type Protector interface {
	Protect(op string, meta rbac.OperationMeta) func(http.Handler) http.Handler
	Authorizer() *rbac.Authorizer
}

var _ Protector = (*Layer)(nil)
