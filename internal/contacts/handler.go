package contacts

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
)

// Handler serves the contacts endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     *rbac.Authorizer
	validator *validator.Validate
}

// NewHandler constructs a Handler. authz scopes listings for owner-scoped roles.
func NewHandler(logger *slog.Logger, service *Service, authz *rbac.Authorizer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authz: authz, validator: validator.New()}
}

// List returns contacts. Owner-scoped roles only ever see their own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := shared.IdentityFromContext(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, limit = shared.NormalizePage(page, limit)

	req := ListContactsRequest{Limit: limit, Offset: shared.Offset(page, limit)}
	if actor != nil && h.authz.IsOwnerScoped(rbac.ParseRole(actor.Role)) {
		req.OwnerID = actor.ID
	} else if owner := strings.TrimSpace(r.URL.Query().Get("owner_id")); owner != "" {
		req.OwnerID = owner
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		req.Search = &search
	}

	contacts, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list contacts failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, Page{Data: contacts, Pagination: shared.NewPagination(page, limit, total)})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	contact, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

// Create stores a contact. Owner-scoped roles always own what they create;
// other roles may assign an owner.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := shared.IdentityFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, r, httpx.ErrUnauthorized)
		return
	}
	var req CreateContactRequest
	if err := httpx.DecodeValid(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	owner := actor.ID
	if req.OwnerID != "" && !h.authz.IsOwnerScoped(rbac.ParseRole(actor.Role)) {
		owner = req.OwnerID
	}
	contact, err := h.service.Create(r.Context(), req, owner)
	if err != nil {
		h.logger.Error("create contact failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateContactRequest
	if err := httpx.DecodeValid(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	contact, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
