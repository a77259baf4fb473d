package organizations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
)

// Handler serves the organizations endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers the organization routes behind guards.
func (h *Handler) MountRoutes(r chi.Router, guards policy.Protector) {
	meta := func(action string) rbac.OperationMeta {
		return rbac.OperationMeta{Resource: rbac.ResourceOrganizations, Action: action}
	}
	r.With(guards.Protect("organizations.list", meta(rbac.ActionRead))).Get("/", h.list)
	r.With(guards.Protect("organizations.get", meta(rbac.ActionRead))).Get("/{id}", h.show)
	r.With(guards.Protect("organizations.create", meta(rbac.ActionCreate))).Post("/", h.create)
	r.With(guards.Protect("organizations.update", meta(rbac.ActionUpdate))).Put("/{id}", h.update)
	r.With(guards.Protect("organizations.delete", meta(rbac.ActionDelete))).Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.service.List(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		h.logger.Error("list organizations failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	org, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := httpx.DecodeValid(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	createdBy := ""
	if actor := shared.IdentityFromContext(r.Context()); actor != nil {
		createdBy = actor.ID
	}
	org, err := h.service.Create(r.Context(), req, createdBy)
	if err != nil {
		h.logger.Warn("create organization failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrganizationRequest
	if err := httpx.DecodeValid(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	org, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
