package domain

// Principal is the resolved, request-scoped identity produced by the
// authorization gate. Permissions are re-read from storage on every
// request, never trusted from the token.
type Principal struct {
	UserID         int64
	Email          string
	OrganizationID int64
	RoleName       string
	Permissions    PermissionSet
}

// HasPermission reports whether the principal's role grants p or AllowAll.
func (p *Principal) HasPermission(perm Permission) bool {
	return p.Permissions.Contains(perm) || p.Permissions.Contains(PermAllowAll)
}
