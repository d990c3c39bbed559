// Package access holds the permission evaluation and tenant isolation
// checks run by every resource-scoped operation. Both are pure functions
// of the principal and the resource; neither touches storage.
package access

import (
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Check reports whether the principal's permission set grants required,
// honoring the AllowAll wildcard. Deterministic set-membership test.
func Check(p *domain.Principal, required domain.Permission) bool {
	if p == nil {
		return false
	}
	return p.HasPermission(required)
}

// Require is the gating form used by every call site protecting a write or
// sensitive read. Fails with ErrPermissionDenied.
func Require(p *domain.Principal, required domain.Permission) error {
	if !Check(p, required) {
		return domerrors.ErrPermissionDenied
	}
	return nil
}

// RequireSameOrganization enforces the tenant boundary. It must run before
// any permission check on a resource-scoped operation: AllowAll escapes
// permission checks, never this one.
func RequireSameOrganization(p *domain.Principal, resourceOrgID int64) error {
	if p == nil || p.OrganizationID == 0 || p.OrganizationID != resourceOrgID {
		return domerrors.ErrPermissionDenied
	}
	return nil
}
