package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminBypassesMatrix(t *testing.T) {
	// An admin entry that grants nothing must not narrow the short-circuit.
	authz := NewAuthorizer(NewMatrix(map[Role][]PermissionRule{
		RoleAdmin: {{Resource: "nothing", Actions: []string{"none"}}},
	}))
	for _, resource := range []string{ResourceContacts, "billing", "anything"} {
		for _, action := range []string{ActionRead, ActionDelete, "export"} {
			assert.True(t, authz.CanAccess(RoleAdmin, resource, action), "%s/%s", resource, action)
		}
	}
}

func TestWildcardRuleGrantsEverything(t *testing.T) {
	authz := NewAuthorizer(NewMatrix(map[Role][]PermissionRule{
		RoleManager: {{Resource: Wildcard, Actions: []string{Wildcard}}},
	}))
	assert.True(t, authz.CanAccess(RoleManager, "courses", "read"))
	assert.True(t, authz.CanAccess(RoleManager, "reports", "publish"))
}

func TestWildcardActionOnSingleResource(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	assert.True(t, authz.CanAccess(RoleManager, ResourceCourses, "archive"))
	assert.False(t, authz.CanAccess(RoleManager, ResourceUsers, ActionDelete))
}

func TestUnknownRoleIsDenied(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	assert.False(t, authz.CanAccess(Role("UNKNOWN_ROLE"), ResourceCourses, ActionRead))
	assert.False(t, authz.CanAccess(Role(""), ResourceCourses, ActionRead))
	assert.Empty(t, authz.PermissionsFor(Role("UNKNOWN_ROLE")))
}

func TestDefaultMatrix(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	cases := []struct {
		role     Role
		resource string
		action   string
		want     bool
	}{
		{RoleClient, ResourceContacts, ActionUpdate, true},
		{RoleClient, ResourceCourses, ActionRead, true},
		{RoleClient, ResourceCourses, ActionCreate, false},
		{RoleClient, ResourceUsers, ActionRead, false},
		{RoleCandidate, ResourceCourses, ActionRead, true},
		{RoleCandidate, ResourceContacts, ActionRead, false},
		{RoleManager, ResourceAudit, ActionRead, true},
		{RoleManager, ResourceAudit, ActionDelete, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, authz.CanAccess(tc.role, tc.resource, tc.action), "%s %s/%s", tc.role, tc.resource, tc.action)
	}
}

func TestOwnershipNarrowsClient(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	assert.False(t, authz.CanAccessResource(RoleClient, ResourceContacts, ActionUpdate, "U1", "U2"))
	assert.True(t, authz.CanAccessResource(RoleClient, ResourceContacts, ActionUpdate, "U1", "U1"))
	// Missing ids fall back to the base permission.
	assert.True(t, authz.CanAccessResource(RoleClient, ResourceContacts, ActionUpdate, "", "U2"))
}

func TestOwnershipNeverGrants(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	assert.False(t, authz.CanAccessResource(RoleClient, ResourceUsers, ActionDelete, "U1", "U1"))
}

func TestOwnershipIgnoredForUnscopedRoles(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	assert.True(t, authz.CanAccessResource(RoleManager, ResourceContacts, ActionDelete, "U1", "U2"))
	assert.True(t, authz.CanAccessResource(RoleAdmin, ResourceContacts, ActionDelete, "U1", "U2"))
}

func TestHasRole(t *testing.T) {
	authz := NewAuthorizer(DefaultMatrix())
	assert.True(t, authz.HasRole(RoleManager, []Role{RoleAdmin, RoleManager}))
	assert.False(t, authz.HasRole(RoleClient, []Role{RoleAdmin, RoleManager}))
	assert.False(t, authz.HasRole(RoleClient, nil))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	m := DefaultMatrix()
	rules := m.PermissionsFor(RoleClient)
	rules[0].Actions[0] = Wildcard
	rules[0].Resource = Wildcard

	authz := NewAuthorizer(m)
	assert.False(t, authz.CanAccess(RoleClient, ResourceUsers, ActionDelete))
}
