package org

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

// ProvisionDefaultRoles seeds the four default roles for a freshly created
// organization and returns the persisted SUPER_ADMIN role, which becomes
// the registering user's main role. This is the only place default
// permission sets are composed; afterwards each role's set is static until
// edited through the role operations.
func ProvisionDefaultRoles(ctx context.Context, roles ports.RoleRepository, orgID int64) (*domain.Role, error) {
	sets := domain.DefaultRoleSets()
	var superAdmin *domain.Role
	for _, name := range []string{
		domain.RoleNameUser,
		domain.RoleNameManager,
		domain.RoleNameAdmin,
		domain.RoleNameSuperAdmin,
	} {
		role := &domain.Role{
			OrganizationID: orgID,
			Name:           name,
			Permissions:    sets[name],
		}
		id, err := roles.Create(ctx, role)
		if err != nil {
			return nil, err
		}
		role.ID = id
		if name == domain.RoleNameSuperAdmin {
			superAdmin = role
		}
	}
	return superAdmin, nil
}
