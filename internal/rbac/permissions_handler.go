package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/shared"
)

// PermissionsHandler exposes the caller's effective permissions.
type PermissionsHandler struct {
	logger *slog.Logger
	authz  *Authorizer
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, authz *Authorizer) *PermissionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PermissionsHandler{logger: logger, authz: authz}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/me", h.me)
}

type permissionsResponse struct {
	Role       Role             `json:"role"`
	SuperAdmin bool             `json:"super_admin"`
	Rules      []PermissionRule `json:"rules"`
}

func (h *PermissionsHandler) me(w http.ResponseWriter, r *http.Request) {
	actor := shared.IdentityFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, r, ErrUnauthenticated)
		return
	}
	role := ParseRole(actor.Role)
	rules := h.authz.PermissionsFor(role)
	if rules == nil {
		rules = []PermissionRule{}
	}
	httpx.JSON(w, http.StatusOK, permissionsResponse{
		Role:       role,
		SuperAdmin: h.authz.IsSuperAdmin(role),
		Rules:      rules,
	})
}
