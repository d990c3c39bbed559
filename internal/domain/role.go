package domain

// Default role names provisioned for every new organization.
const (
	RoleNameUser       = "USER"
	RoleNameManager    = "MANAGER"
	RoleNameAdmin      = "ADMIN"
	RoleNameSuperAdmin = "SUPER_ADMIN"
)

// Role is a named, organization-scoped bundle of permissions. A user holds
// exactly one main role; permission checks never cross organizations.
type Role struct {
	ID             int64
	OrganizationID int64
	Name           string
	Permissions    PermissionSet
}

// HasPermission reports whether the role grants p, honoring the AllowAll
// wildcard.
func (r *Role) HasPermission(p Permission) bool {
	return r.Permissions.Contains(p) || r.Permissions.Contains(PermAllowAll)
}

// DefaultRoleSets returns the four default permission sets composed
// bottom-up: each tier is a strict superset of the one below. Every call
// returns fresh sets; callers may persist or extend them freely.
func DefaultRoleSets() map[string]PermissionSet {
	user := NewPermissionSet(
		PermTaskUpdate,
		PermTaskAddComment,
		PermTaskEditComment,
		PermTaskHistoryRead,
		PermTimeEntryAdd,
		PermTimeEntryRemove,
		PermProjectRead,
	)
	manager := user.Union(NewPermissionSet(
		PermTaskCreate,
		PermTaskDelete,
		PermTaskGroupCreate,
		PermTaskGroupDelete,
		PermProjectAddUser,
		PermProjectRemoveUser,
		PermTimeEntryReadAll,
		PermOrganizationReadUsers,
	))
	admin := manager.Union(NewPermissionSet(
		PermProjectCreate,
		PermOrganizationAddUser,
		PermRoleCreate,
	))
	superAdmin := admin.Union(NewPermissionSet(
		PermOrganizationUpdate,
		PermOrganizationDelete,
		PermAllowAll,
	))
	return map[string]PermissionSet{
		RoleNameUser:       user,
		RoleNameManager:    manager,
		RoleNameAdmin:      admin,
		RoleNameSuperAdmin: superAdmin,
	}
}
