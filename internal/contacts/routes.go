package contacts

import (
	"github.com/go-chi/chi/v5"

	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
)

// MountRoutes registers the contact routes behind guards. Single-contact
// operations resolve their owner so owner-scoped roles reach only their own rows.
func (h *Handler) MountRoutes(r chi.Router, guards policy.Protector) {
	meta := func(action string, owned bool) rbac.OperationMeta {
		m := rbac.OperationMeta{Resource: rbac.ResourceContacts, Action: action}
		if owned {
			m.Owner = h.service.ResolveOwner
		}
		return m
	}
	r.With(guards.Protect("contacts.list", meta(rbac.ActionRead, false))).Get("/", h.List)
	r.With(guards.Protect("contacts.create", meta(rbac.ActionCreate, false))).Post("/", h.Create)
	r.With(guards.Protect("contacts.get", meta(rbac.ActionRead, true))).Get("/{id}", h.Show)
	r.With(guards.Protect("contacts.update", meta(rbac.ActionUpdate, true))).Put("/{id}", h.Update)
	r.With(guards.Protect("contacts.delete", meta(rbac.ActionDelete, true))).Delete("/{id}", h.Delete)
}
