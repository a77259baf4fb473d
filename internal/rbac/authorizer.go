package rbac

// Authorizer answers allow/deny questions against a Matrix. It holds no
// mutable state and is safe for concurrent use.
type Authorizer struct {
	matrix      Matrix
	superAdmin  Role
	ownerScoped map[Role]struct{}
}

// NewAuthorizer builds an Authorizer. ADMIN bypasses the matrix and CLIENT is
// restricted to resources it owns.
func NewAuthorizer(matrix Matrix) *Authorizer {
	return &Authorizer{
		matrix:      matrix,
		superAdmin:  RoleAdmin,
		ownerScoped: map[Role]struct{}{RoleClient: {}},
	}
}

// CanAccess reports whether role may perform action on resource.
func (a *Authorizer) CanAccess(role Role, resource, action string) bool {
	// Checked ahead of the matrix so no table edit can narrow it.
	if a.IsSuperAdmin(role) {
		return true
	}
	rules, ok := a.matrix.lookup(role)
	if !ok {
		return false
	}
	for _, rule := range rules {
		if rule.Resource != Wildcard && rule.Resource != resource {
			continue
		}
		for _, act := range rule.Actions {
			if act == Wildcard || act == action {
				return true
			}
		}
	}
	return false
}

// CanAccessResource applies CanAccess and then, for owner-scoped roles, requires
// ownerID == actorID when both are known. Ownership only ever narrows access.
func (a *Authorizer) CanAccessResource(role Role, resource, action, ownerID, actorID string) bool {
	if !a.CanAccess(role, resource, action) {
		return false
	}
	if a.IsOwnerScoped(role) && ownerID != "" && actorID != "" {
		return ownerID == actorID
	}
	return true
}

// HasRole reports whether role is in allowed.
func (a *Authorizer) HasRole(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether role bypasses every check.
func (a *Authorizer) IsSuperAdmin(role Role) bool {
	return role == a.superAdmin
}

// IsOwnerScoped reports whether role is limited to records it owns.
func (a *Authorizer) IsOwnerScoped(role Role) bool {
	_, ok := a.ownerScoped[role]
	return ok
}

// PermissionsFor exposes the matrix rules for role.
func (a *Authorizer) PermissionsFor(role Role) []PermissionRule {
	return a.matrix.PermissionsFor(role)
}
