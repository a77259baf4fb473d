package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	audithttp "github.com/courseflow/courseflow/internal/audit/http"
	"github.com/courseflow/courseflow/internal/auth"
	"github.com/courseflow/courseflow/internal/contacts"
	"github.com/courseflow/courseflow/internal/courses"
	"github.com/courseflow/courseflow/internal/observability"
	"github.com/courseflow/courseflow/internal/organizations"
	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
	"github.com/courseflow/courseflow/internal/users"
	"github.com/courseflow/courseflow/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Policy         *policy.Layer
	Metrics        *observability.Metrics

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	ContactsHandler      *contacts.Handler
	CoursesHandler       *courses.Handler
	OrganizationsHandler *organizations.Handler
	AuditHandler         *audithttp.Handler
	PermissionsHandler   *rbac.PermissionsHandler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi.Router with CourseFlow defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.Policy == nil {
		return r
	}

	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			params.UsersHandler.MountRoutes(r, params.Policy)
		})
	}
	if params.ContactsHandler != nil {
		r.Route("/contacts", func(r chi.Router) {
			params.ContactsHandler.MountRoutes(r, params.Policy)
		})
	}
	if params.CoursesHandler != nil {
		r.Route("/courses", func(r chi.Router) {
			params.CoursesHandler.MountRoutes(r, params.Policy)
		})
	}
	if params.OrganizationsHandler != nil {
		r.Route("/organizations", func(r chi.Router) {
			params.OrganizationsHandler.MountRoutes(r, params.Policy)
		})
	}
	if params.AuditHandler != nil {
		params.AuditHandler.MountRoutes(r, params.Policy)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(params.Policy.Protect("jobs.health", rbac.OperationMeta{Roles: []rbac.Role{rbac.RoleAdmin}}))
			params.JobHandler.MountRoutes(r)
		})
	}
	return r
}
