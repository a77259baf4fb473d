package rbac

// Matrix maps each role to its permission rules. It is built once at startup
// and only read afterwards.
type Matrix struct {
	rules map[Role][]PermissionRule
}

// NewMatrix copies rules into an immutable Matrix.
func NewMatrix(rules map[Role][]PermissionRule) Matrix {
	copied := make(map[Role][]PermissionRule, len(rules))
	for role, list := range rules {
		copied[role] = cloneRules(list)
	}
	return Matrix{rules: copied}
}

// DefaultMatrix returns the production permission table.
func DefaultMatrix() Matrix {
	all := []string{Wildcard}
	return NewMatrix(map[Role][]PermissionRule{
		RoleAdmin: {
			{Resource: Wildcard, Actions: all},
		},
		RoleManager: {
			{Resource: ResourceCourses, Actions: all},
			{Resource: ResourceOrganizations, Actions: all},
			{Resource: ResourceContacts, Actions: all},
			{Resource: ResourceUsers, Actions: []string{ActionRead}},
			{Resource: ResourceAudit, Actions: []string{ActionRead}},
		},
		RoleClient: {
			{Resource: ResourceCourses, Actions: []string{ActionRead}},
			{Resource: ResourceOrganizations, Actions: []string{ActionRead}},
			{Resource: ResourceContacts, Actions: []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}},
			{Resource: ResourceAudit, Actions: []string{ActionRead}},
		},
		RoleCandidate: {
			{Resource: ResourceCourses, Actions: []string{ActionRead}},
			{Resource: ResourceAudit, Actions: []string{ActionRead}},
		},
	})
}

// PermissionsFor returns a copy of the rules for role. Unknown roles get nil.
func (m Matrix) PermissionsFor(role Role) []PermissionRule {
	return cloneRules(m.rules[role])
}

func (m Matrix) lookup(role Role) ([]PermissionRule, bool) {
	rules, ok := m.rules[role]
	return rules, ok
}

func cloneRules(rules []PermissionRule) []PermissionRule {
	if rules == nil {
		return nil
	}
	out := make([]PermissionRule, len(rules))
	for i, r := range rules {
		out[i] = PermissionRule{Resource: r.Resource, Actions: append([]string(nil), r.Actions...)}
	}
	return out
}
