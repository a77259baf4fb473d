package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/shared"
)

// Denial errors returned by Gate.Check.
var (
	ErrUnauthenticated        = fmt.Errorf("%w: authentication required", httpx.ErrUnauthorized)
	ErrInsufficientRole       = fmt.Errorf("%w: insufficient role", httpx.ErrForbidden)
	ErrInsufficientPermission = fmt.Errorf("%w: insufficient permission", httpx.ErrForbidden)
)

// DecisionRecorder receives gate outcomes for metrics.
type DecisionRecorder interface {
	ObserveGateDecision(op, outcome string)
}

// Gate approves or rejects operations before they run.
type Gate struct {
	authz    *Authorizer
	registry *Registry
	logger   *slog.Logger
	metrics  DecisionRecorder
}

// NewGate wires a Gate. metrics may be nil.
func NewGate(authz *Authorizer, registry *Registry, logger *slog.Logger, metrics DecisionRecorder) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{authz: authz, registry: registry, logger: logger, metrics: metrics}
}

// Registry exposes the declaration table the gate reads.
func (g *Gate) Registry() *Registry {
	return g.registry
}

// Authorizer exposes the evaluator behind the gate.
func (g *Gate) Authorizer() *Authorizer {
	return g.authz
}

// Check evaluates the declaration for op against the actor. A nil error means
// the operation may run. Undeclared operations are always allowed.
func (g *Gate) Check(ctx context.Context, op string, actor *shared.Identity, params map[string]string) error {
	meta, ok := g.registry.Lookup(op)
	if !ok || !meta.Guarded() {
		g.observe(op, "unguarded")
		return nil
	}
	if actor == nil {
		return g.deny(op, "unauthenticated", ErrUnauthenticated)
	}
	role := ParseRole(actor.Role)
	if len(meta.Roles) > 0 && !g.authz.HasRole(role, meta.Roles) {
		return g.deny(op, "role", ErrInsufficientRole)
	}
	if !meta.hasPermission() {
		g.observe(op, "allowed")
		return nil
	}
	if !g.authz.CanAccess(role, meta.Resource, meta.Action) {
		return g.deny(op, "permission", ErrInsufficientPermission)
	}
	if meta.Owner != nil && g.authz.IsOwnerScoped(role) {
		ownerID, err := meta.Owner(ctx, params)
		if err != nil {
			return err
		}
		if !g.authz.CanAccessResource(role, meta.Resource, meta.Action, ownerID, actor.ID) {
			g.logger.Info("rbac ownership denied", slog.String("op", op), slog.String("actor", actor.ID), slog.String("owner", ownerID))
			return g.deny(op, "ownership", ErrInsufficientPermission)
		}
	}
	g.observe(op, "allowed")
	return nil
}

func (g *Gate) deny(op, reason string, err error) error {
	g.observe(op, "denied_"+reason)
	if !errors.Is(err, ErrUnauthenticated) {
		g.logger.Debug("rbac denied", slog.String("op", op), slog.String("reason", reason))
	}
	return err
}

func (g *Gate) observe(op, outcome string) {
	if g.metrics != nil {
		g.metrics.ObserveGateDecision(op, outcome)
	}
}
