package rbac

import (
	"context"
	"fmt"
	"sync"
)

// OwnerResolver returns the owner of the record an operation targets. params
// carries the operation's path parameters.
type OwnerResolver func(ctx context.Context, params map[string]string) (string, error)

// OperationMeta is the guard declaration for one operation.
type OperationMeta struct {
	Roles    []Role
	Resource string
	Action   string
	Owner    OwnerResolver
}

// Guarded reports whether any guard is declared.
func (m OperationMeta) Guarded() bool {
	return len(m.Roles) > 0 || m.hasPermission()
}

func (m OperationMeta) hasPermission() bool {
	return m.Resource != "" && m.Action != ""
}

// Registry holds operation declarations keyed by operation identifier, e.g.
// "contacts.delete".
type Registry struct {
	mu  sync.RWMutex
	ops map[string]OperationMeta
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]OperationMeta)}
}

// Register declares meta for op. Declaring the same op twice is a wiring bug.
func (r *Registry) Register(op string, meta OperationMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[op]; exists {
		return fmt.Errorf("rbac: operation %q already registered", op)
	}
	meta.Roles = append([]Role(nil), meta.Roles...)
	r.ops[op] = meta
	return nil
}

// MustRegister is Register for route setup code.
func (r *Registry) MustRegister(op string, meta OperationMeta) {
	if err := r.Register(op, meta); err != nil {
		panic(err)
	}
}

// Lookup returns the declaration for op.
func (r *Registry) Lookup(op string) (OperationMeta, bool) {
	if r == nil {
		return OperationMeta{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.ops[op]
	return meta, ok
}
