package org

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// ListRoles returns the caller's organization's roles. Any authenticated
// member may read them.
func (s *Service) ListRoles(ctx context.Context, p *domain.Principal) ([]*domain.Role, error) {
	if p == nil {
		return nil, domerrors.ErrPermissionDenied
	}
	return s.roles.ListByOrganization(ctx, p.OrganizationID)
}

// ListPermissions returns the permission catalog.
func (s *Service) ListPermissions() []domain.Permission {
	out := make([]domain.Permission, len(domain.AllPermissions))
	copy(out, domain.AllPermissions)
	return out
}

// AddRole creates an ad-hoc role in the caller's organization. Permission
// tags are validated against the catalog at this boundary.
func (s *Service) AddRole(ctx context.Context, p *domain.Principal, name string, permissionTags []string) (*domain.Role, error) {
	if err := access.Require(p, domain.PermRoleCreate); err != nil {
		return nil, err
	}
	set := make(domain.PermissionSet, len(permissionTags))
	for _, tag := range permissionTags {
		perm, ok := domain.ParsePermission(tag)
		if !ok {
			return nil, domerrors.ErrNoSuchEntity
		}
		set[perm] = struct{}{}
	}
	role := &domain.Role{
		OrganizationID: p.OrganizationID,
		Name:           name,
		Permissions:    set,
	}
	id, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, err
	}
	role.ID = id
	return role, nil
}

// DeleteRole removes a role from the caller's organization. A missing role
// is reported as denied, not as absent.
func (s *Service) DeleteRole(ctx context.Context, p *domain.Principal, roleID int64) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return domerrors.ErrPermissionDenied
	}
	if err := access.RequireSameOrganization(p, role.OrganizationID); err != nil {
		return err
	}
	if err := access.Require(p, domain.PermRoleDelete); err != nil {
		return err
	}
	return s.roles.Delete(ctx, roleID)
}
