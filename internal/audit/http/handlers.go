package audithttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courseflow/courseflow/internal/audit"
	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
)

// QueryService defines the read contract of the audit trail.
type QueryService interface {
	List(ctx context.Context, viewer audit.Viewer, page, limit int, filters audit.Filters) (audit.Page, error)
	Get(ctx context.Context, id string, viewer audit.Viewer) (*audit.Record, error)
	Stats(ctx context.Context, viewer audit.Viewer) (audit.Stats, error)
}

// Handler serves the audit trail endpoints.
type Handler struct {
	logger  *slog.Logger
	service QueryService
	authz   *rbac.Authorizer
}

// NewHandler builds an audit handler.
func NewHandler(logger *slog.Logger, service QueryService, authz *rbac.Authorizer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authz: authz}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	page := atoiDefault(r.URL.Query().Get("page"), 1)
	limit := atoiDefault(r.URL.Query().Get("limit"), shared.DefaultPageSize)

	result, err := h.service.List(r.Context(), viewer, page, limit, filters)
	if err != nil {
		h.fail(w, r, "list audit records", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		h.fail(w, r, "get audit record", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, "audit stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// viewer derives visibility from the caller. Only the super-admin role sees
// every actor's records.
func (h *Handler) viewer(w http.ResponseWriter, r *http.Request) (audit.Viewer, bool) {
	actor := shared.IdentityFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, r, httpx.ErrUnauthorized)
		return audit.Viewer{}, false
	}
	all := h.authz != nil && h.authz.IsSuperAdmin(rbac.ParseRole(actor.Role))
	return audit.Viewer{ID: actor.ID, All: all}, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if !isClientError(err) {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, r, err)
}

func isClientError(err error) bool {
	for _, target := range []error{httpx.ErrNotFound, httpx.ErrForbidden, httpx.ErrValidation, httpx.ErrUnauthorized} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func parseFilters(r *http.Request) (audit.Filters, error) {
	q := r.URL.Query()
	filters := audit.Filters{Entity: strings.TrimSpace(q.Get("entity"))}
	if action := strings.ToUpper(strings.TrimSpace(q.Get("action"))); action != "" {
		switch audit.Action(action) {
		case audit.ActionCreate, audit.ActionRead, audit.ActionUpdate, audit.ActionDelete:
			filters.Action = audit.Action(action)
		default:
			return filters, fmt.Errorf("%w: unknown action %q", httpx.ErrValidation, action)
		}
	}
	var err error
	if filters.From, err = parseTime(q.Get("from"), false); err != nil {
		return filters, err
	}
	if filters.To, err = parseTime(q.Get("to"), true); err != nil {
		return filters, err
	}
	if !filters.From.IsZero() && !filters.To.IsZero() && filters.To.Before(filters.From) {
		return filters, fmt.Errorf("%w: to before from", httpx.ErrValidation)
	}
	return filters, nil
}

// parseTime accepts RFC3339 or a plain date. A plain "to" date covers the
// whole day.
func parseTime(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", httpx.ErrValidation, raw)
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}

func atoiDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
