package shared

import (
	"context"
	"sync"
)

type sessionContextKey struct{}

type identityContextKey struct{}

type failureContextKey struct{}

// Identity is the authenticated actor behind a request.
type Identity struct {
	ID   string
	Role string
}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithIdentity stores the authenticated actor in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &id)
}

// IdentityFromContext returns the authenticated actor, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	if id == nil || id.ID == "" {
		return nil
	}
	return id
}

// FailureSlot carries the error a handler responded with back to the
// middleware that wraps it.
type FailureSlot struct {
	mu  sync.Mutex
	err error
}

// Set records err if no error was recorded yet.
func (s *FailureSlot) Set(err error) {
	if s == nil || err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Err returns the recorded error.
func (s *FailureSlot) Err() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ContextWithFailureSlot attaches an empty failure slot to ctx.
func ContextWithFailureSlot(ctx context.Context) (context.Context, *FailureSlot) {
	slot := &FailureSlot{}
	return context.WithValue(ctx, failureContextKey{}, slot), slot
}

// ReportFailure records err on the failure slot attached to ctx, if any.
func ReportFailure(ctx context.Context, err error) {
	slot, _ := ctx.Value(failureContextKey{}).(*FailureSlot)
	slot.Set(err)
}
