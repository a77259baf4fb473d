package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
)

const rateLimit = 60
const rateWindow = time.Minute

var readAudit = rbac.OperationMeta{Resource: rbac.ResourceAudit, Action: rbac.ActionRead}

// MountRoutes registers the audit trail endpoints. Reads of the trail are
// audited like any other guarded read.
func (h *Handler) MountRoutes(r chi.Router, guards policy.Protector) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(rateLimit, rateWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.Route("/audit", func(r chi.Router) {
		r.Use(limiter)
		r.With(guards.Protect("audit.list", readAudit)).Get("/", h.handleList)
		r.With(guards.Protect("audit.stats", readAudit)).Get("/stats", h.handleStats)
		r.With(guards.Protect("audit.get", readAudit)).Get("/{id}", h.handleGet)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if actor := shared.IdentityFromContext(r.Context()); actor != nil {
		return "user:" + actor.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
