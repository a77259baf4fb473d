package audithttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseflow/courseflow/internal/audit"
	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
)

type stubQueryService struct {
	lastViewer  audit.Viewer
	lastFilters audit.Filters
	lastPage    int
	lastLimit   int
	getErr      error
}

func (s *stubQueryService) List(ctx context.Context, viewer audit.Viewer, page, limit int, filters audit.Filters) (audit.Page, error) {
	s.lastViewer, s.lastFilters, s.lastPage, s.lastLimit = viewer, filters, page, limit
	return audit.Page{Data: []audit.Record{{ID: "r1", ActorID: viewer.ID}}, Pagination: shared.NewPagination(page, limit, 1)}, nil
}

func (s *stubQueryService) Get(ctx context.Context, id string, viewer audit.Viewer) (*audit.Record, error) {
	s.lastViewer = viewer
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &audit.Record{ID: id, ActorID: viewer.ID}, nil
}

func (s *stubQueryService) Stats(ctx context.Context, viewer audit.Viewer) (audit.Stats, error) {
	s.lastViewer = viewer
	return audit.Stats{Total: 3}, nil
}

func newAuditRouter(t *testing.T, svc QueryService) http.Handler {
	t.Helper()
	authz := rbac.NewAuthorizer(rbac.DefaultMatrix())
	layer := policy.NewLayer(rbac.NewGate(authz, rbac.NewRegistry(), nil, nil), nil)
	r := chi.NewRouter()
	NewHandler(nil, svc, authz).MountRoutes(r, layer)
	return r
}

func get(h http.Handler, path string, actor *shared.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if actor != nil {
		req = req.WithContext(shared.ContextWithIdentity(req.Context(), *actor))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestListRequiresIdentity(t *testing.T) {
	rr := get(newAuditRouter(t, &stubQueryService{}), "/audit", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListViewerScope(t *testing.T) {
	svc := &stubQueryService{}
	router := newAuditRouter(t, svc)

	rr := get(router, "/audit?page=2&limit=5&entity=contacts&action=delete&from=2024-03-01&to=2024-03-02", &shared.Identity{ID: "C1", Role: "CLIENT"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, audit.Viewer{ID: "C1"}, svc.lastViewer)
	assert.Equal(t, 2, svc.lastPage)
	assert.Equal(t, 5, svc.lastLimit)
	assert.Equal(t, "contacts", svc.lastFilters.Entity)
	assert.Equal(t, audit.ActionDelete, svc.lastFilters.Action)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), svc.lastFilters.From)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), svc.lastFilters.To)

	var body audit.Page
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Pagination.Page)

	rr = get(router, "/audit", &shared.Identity{ID: "A1", Role: "ADMIN"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, audit.Viewer{ID: "A1", All: true}, svc.lastViewer)
}

func TestListRejectsBadFilters(t *testing.T) {
	router := newAuditRouter(t, &stubQueryService{})
	actor := &shared.Identity{ID: "M1", Role: "MANAGER"}

	assert.Equal(t, http.StatusBadRequest, get(router, "/audit?action=explode", actor).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/audit?from=yesterday", actor).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/audit?from=2024-03-02&to=2024-03-01", actor).Code)
}

func TestGetMapsAccessDenied(t *testing.T) {
	svc := &stubQueryService{getErr: audit.ErrAccessDenied}
	router := newAuditRouter(t, svc)
	rr := get(router, "/audit/r9", &shared.Identity{ID: "C1", Role: "CLIENT"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	svc.getErr = audit.ErrNotFound
	rr = get(router, "/audit/r9", &shared.Identity{ID: "C1", Role: "CLIENT"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStats(t *testing.T) {
	svc := &stubQueryService{}
	rr := get(newAuditRouter(t, svc), "/audit/stats", &shared.Identity{ID: "K1", Role: "CANDIDATE"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, audit.Viewer{ID: "K1"}, svc.lastViewer)
	assert.Contains(t, rr.Body.String(), `"total":3`)
}

func TestUnknownRoleCannotReadTrail(t *testing.T) {
	rr := get(newAuditRouter(t, &stubQueryService{}), "/audit", &shared.Identity{ID: "X1", Role: "GUEST"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
