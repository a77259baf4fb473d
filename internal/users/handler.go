package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
)

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers user routes. Account changes are reserved to ADMIN.
func (h *Handler) MountRoutes(r chi.Router, guards policy.Protector) {
	r.With(guards.Protect("users.list", rbac.OperationMeta{
		Resource: rbac.ResourceUsers,
		Action:   rbac.ActionRead,
	})).Get("/", h.listUsers)
	r.With(guards.Protect("users.create", rbac.OperationMeta{
		Roles:    []rbac.Role{rbac.RoleAdmin},
		Resource: rbac.ResourceUsers,
		Action:   rbac.ActionCreate,
	})).Post("/", h.createUser)
	r.With(guards.Protect("users.update_role", rbac.OperationMeta{
		Roles:    []rbac.Role{rbac.RoleAdmin},
		Resource: rbac.ResourceUsers,
		Action:   rbac.ActionUpdate,
	})).Put("/{id}/role", h.updateRole)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.service.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.DecodeValid(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		h.logger.Warn("create user failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := httpx.DecodeValid(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	user, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
