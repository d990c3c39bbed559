package domain

// Permission is one capability from the closed catalog. Roles hold sets of
// these; AllowAll satisfies any check.
type Permission string

const (
	PermOrganizationDelete     Permission = "ORGANIZATION_DELETE"
	PermOrganizationUpdate     Permission = "ORGANIZATION_UPDATE"
	PermOrganizationAddUser    Permission = "ORGANIZATION_ADD_USER"
	PermOrganizationReadUsers  Permission = "ORGANIZATION_READ_USERS"
	PermOrganizationDeleteUser Permission = "ORGANIZATION_DELETE_USER"
	PermRoleCreate             Permission = "ROLE_CREATE"
	PermRoleDelete             Permission = "ROLE_DELETE"
	PermAllowAll               Permission = "ALLOW_ALL"
	PermTaskCreate             Permission = "TASK_CREATE"
	PermTaskUpdate             Permission = "TASK_UPDATE"
	PermTaskDelete             Permission = "TASK_DELETE"
	PermTaskGroupCreate        Permission = "TASK_GROUP_CREATE"
	PermTaskGroupUpdate        Permission = "TASK_GROUP_UPDATE"
	PermTaskGroupDelete        Permission = "TASK_GROUP_DELETE"
	PermProjectCreate          Permission = "PROJECT_CREATE"
	PermProjectUpdate          Permission = "PROJECT_UPDATE"
	PermProjectDelete          Permission = "PROJECT_DELETE"
	PermProjectRead            Permission = "PROJECT_READ"
	PermProjectAddUser         Permission = "PROJECT_ADD_USER"
	PermProjectRemoveUser      Permission = "PROJECT_REMOVE_USER"
	PermTaskAddComment         Permission = "TASK_ADD_COMMENT"
	PermTaskEditComment        Permission = "TASK_EDIT_COMMENT"
	PermTaskDeleteComment      Permission = "TASK_DELETE_COMMENT"
	PermTimeEntryAdd           Permission = "TIME_ENTRY_ADD"
	PermTimeEntryRemove        Permission = "TIME_ENTRY_REMOVE"
	PermTimeEntryReadAll       Permission = "TIME_ENTRY_READ_ALL"
	PermTaskHistoryRead        Permission = "TASK_HISTORY_READ"
)

// AllPermissions is the full catalog, the single source of truth for what a
// role may hold. Order matches the catalog table seeded at migration time.
var AllPermissions = []Permission{
	PermOrganizationDelete,
	PermOrganizationUpdate,
	PermOrganizationAddUser,
	PermOrganizationReadUsers,
	PermOrganizationDeleteUser,
	PermRoleCreate,
	PermRoleDelete,
	PermAllowAll,
	PermTaskCreate,
	PermTaskUpdate,
	PermTaskDelete,
	PermTaskGroupCreate,
	PermTaskGroupUpdate,
	PermTaskGroupDelete,
	PermProjectCreate,
	PermProjectUpdate,
	PermProjectDelete,
	PermProjectRead,
	PermProjectAddUser,
	PermProjectRemoveUser,
	PermTaskAddComment,
	PermTaskEditComment,
	PermTaskDeleteComment,
	PermTimeEntryAdd,
	PermTimeEntryRemove,
	PermTimeEntryReadAll,
	PermTaskHistoryRead,
}

var permissionSet = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		m[p] = struct{}{}
	}
	return m
}()

// Valid reports whether p is part of the catalog.
func (p Permission) Valid() bool {
	_, ok := permissionSet[p]
	return ok
}

// String returns the canonical tag.
func (p Permission) String() string { return string(p) }

// ParsePermission validates a tag loaded from storage or a request body.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s PermissionSet) Contains(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Union returns a new set holding every permission of s and others. Inputs
// are never mutated, so default sets cannot alias across organizations.
func (s PermissionSet) Union(others ...PermissionSet) PermissionSet {
	out := make(PermissionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	for _, o := range others {
		for p := range o {
			out[p] = struct{}{}
		}
	}
	return out
}

// List returns the set members in unspecified order.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}
