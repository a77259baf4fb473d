package rbac

// Role is one of the fixed actor roles. Roles are compiled in, never stored as
// configurable data.
type Role string

// Known roles.
const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleClient    Role = "CLIENT"
	RoleCandidate Role = "CANDIDATE"
)

// Wildcard matches any resource or any action.
const Wildcard = "*"

// Resources guarded by the matrix.
const (
	ResourceCourses       = "courses"
	ResourceOrganizations = "organizations"
	ResourceContacts      = "contacts"
	ResourceUsers         = "users"
	ResourceAudit         = "audit"
)

// Actions understood by the matrix.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// PermissionRule grants a set of actions on one resource.
type PermissionRule struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// ParseRole maps a stored role name onto a Role. Unknown names are returned
// as-is so they fall through to deny-by-default.
func ParseRole(name string) Role {
	return Role(name)
}

// Valid reports whether r is one of the compiled-in roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleClient, RoleCandidate:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
