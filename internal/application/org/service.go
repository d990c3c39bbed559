// Package org implements organization-scoped management operations:
// member accounts, role administration and the organization lifecycle.
// Every resource-scoped operation runs the tenant check before its
// permission check.
package org

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// ResetTokenIssuer starts the password-reset flow for an invited account.
// Satisfied by auth.ForgotPassword.
type ResetTokenIssuer interface {
	CreateResetToken(ctx context.Context, userID int64, email string) error
}

// Service bundles the organization operations.
type Service struct {
	orgs    ports.OrganizationRepository
	users   ports.UserRepository
	roles   ports.RoleRepository
	hasher  ports.PasswordHasher
	invites ResetTokenIssuer
}

func NewService(orgs ports.OrganizationRepository, users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, invites ResetTokenIssuer) *Service {
	return &Service{orgs: orgs, users: users, roles: roles, hasher: hasher, invites: invites}
}

// ListUsers returns every user of the caller's organization.
func (s *Service) ListUsers(ctx context.Context, p *domain.Principal) ([]*domain.User, error) {
	if err := access.Require(p, domain.PermOrganizationReadUsers); err != nil {
		return nil, err
	}
	return s.users.ListByOrganization(ctx, p.OrganizationID)
}

// Update renames the organization.
func (s *Service) Update(ctx context.Context, p *domain.Principal, orgID int64, name string) error {
	if err := access.RequireSameOrganization(p, orgID); err != nil {
		return err
	}
	if err := access.Require(p, domain.PermOrganizationUpdate); err != nil {
		return err
	}
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domerrors.ErrNoSuchEntity
	}
	org.Name = name
	return s.orgs.Update(ctx, org)
}

// Delete soft-deletes the organization: status flips to DELETED and every
// member is disabled in the same transaction. Rows are never removed.
func (s *Service) Delete(ctx context.Context, p *domain.Principal, orgID int64) error {
	if err := access.RequireSameOrganization(p, orgID); err != nil {
		return err
	}
	if err := access.Require(p, domain.PermOrganizationDelete); err != nil {
		return err
	}
	return s.orgs.SoftDelete(ctx, orgID)
}

// InviteUserInput describes an account created by an administrator.
type InviteUserInput struct {
	FirstName string
	LastName  string
	Email     string
	RoleID    int64
}

// InviteUser pre-creates a disabled account with a random unusable
// password and mails a reset link; completing the reset activates the
// account.
func (s *Service) InviteUser(ctx context.Context, p *domain.Principal, input InviteUserInput) error {
	if err := access.Require(p, domain.PermOrganizationAddUser); err != nil {
		return err
	}
	role, err := s.roles.GetByID(ctx, input.RoleID)
	if err != nil {
		return err
	}
	if role == nil {
		return domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, role.OrganizationID); err != nil {
		return err
	}
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domerrors.ErrEmailTaken
	}
	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return err
	}
	user := &domain.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Nick:           nickFromEmail(input.Email),
		Email:          input.Email,
		PasswordHash:   hash,
		OrganizationID: p.OrganizationID,
		RoleID:         role.ID,
		Enabled:        false,
		Status:         domain.UserStatusInvited,
	}
	userID, err := s.users.Create(ctx, user)
	if err != nil {
		return err
	}
	return s.invites.CreateResetToken(ctx, userID, input.Email)
}

// RemoveUser disables a member account. The row stays; self-removal is
// denied.
func (s *Service) RemoveUser(ctx context.Context, p *domain.Principal, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrNoSuchEntity
	}
	if user.Email == p.Email {
		return domerrors.ErrPermissionDenied
	}
	if err := access.RequireSameOrganization(p, user.OrganizationID); err != nil {
		return err
	}
	if err := access.Require(p, domain.PermOrganizationDeleteUser); err != nil {
		return err
	}
	return s.users.SetStatus(ctx, user.ID, domain.UserStatusDisabled)
}

func nickFromEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
