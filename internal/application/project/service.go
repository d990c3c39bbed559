// Package project implements project lifecycle and membership operations.
// Resource-scoped operations resolve the project first, run the tenant
// check against its organization, then the permission check.
package project

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Service bundles the project operations.
type Service struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
}

func NewService(projects ports.ProjectRepository, users ports.UserRepository) *Service {
	return &Service{projects: projects, users: users}
}

// List returns the projects the caller is a member of.
func (s *Service) List(ctx context.Context, p *domain.Principal) ([]*domain.Project, error) {
	if p == nil {
		return nil, domerrors.ErrPermissionDenied
	}
	return s.projects.ListByUser(ctx, p.UserID)
}

// Get returns a single project with its members.
func (s *Service) Get(ctx context.Context, p *domain.Principal, projectID int64) (*domain.Project, []*domain.ProjectMember, error) {
	project, err := s.load(ctx, p, projectID, domain.PermProjectRead)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return project, members, nil
}

// CreateInput describes a new project.
type CreateInput struct {
	Name        string
	Description string
}

// Create persists a project owned by the caller and enrolls the caller as
// its OWNER member.
func (s *Service) Create(ctx context.Context, p *domain.Principal, input CreateInput) (*domain.Project, error) {
	if err := access.Require(p, domain.PermProjectCreate); err != nil {
		return nil, err
	}
	project := &domain.Project{
		Name:           input.Name,
		Description:    input.Description,
		Status:         domain.ProjectStatusActive,
		OwnerID:        p.UserID,
		OrganizationID: p.OrganizationID,
	}
	id, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	project.ID = id
	owner := &domain.ProjectMember{
		ProjectID: id,
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      domain.ProjectRoleOwner,
	}
	if err := s.projects.AddMember(ctx, owner); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateInput carries the mutable project fields.
type UpdateInput struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
}

// Update rewrites name, description and status.
func (s *Service) Update(ctx context.Context, p *domain.Principal, projectID int64, input UpdateInput) error {
	project, err := s.load(ctx, p, projectID, domain.PermProjectUpdate)
	if err != nil {
		return err
	}
	project.Name = input.Name
	project.Description = input.Description
	project.Status = input.Status
	return s.projects.Update(ctx, project)
}

// Delete removes the project and its memberships.
func (s *Service) Delete(ctx context.Context, p *domain.Principal, projectID int64) error {
	if _, err := s.load(ctx, p, projectID, domain.PermProjectDelete); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID)
}

// AddUser enrolls an organization member into the project as MEMBER.
func (s *Service) AddUser(ctx context.Context, p *domain.Principal, projectID int64, email string) error {
	if _, err := s.load(ctx, p, projectID, domain.PermProjectAddUser); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, user.OrganizationID); err != nil {
		return err
	}
	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      domain.ProjectRoleMember,
	}
	return s.projects.AddMember(ctx, member)
}

// RemoveUser drops a membership. The OWNER member cannot be removed.
func (s *Service) RemoveUser(ctx context.Context, p *domain.Principal, projectID int64, email string) error {
	if _, err := s.load(ctx, p, projectID, domain.PermProjectRemoveUser); err != nil {
		return err
	}
	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.Email != email {
			continue
		}
		if m.Role == domain.ProjectRoleOwner {
			return domerrors.ErrPermissionDenied
		}
		return s.projects.RemoveMember(ctx, projectID, m.UserID)
	}
	return domerrors.ErrNoSuchEntity
}

// load fetches a project and runs the tenant check before the permission
// check.
func (s *Service) load(ctx context.Context, p *domain.Principal, projectID int64, required domain.Permission) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, project.OrganizationID); err != nil {
		return nil, err
	}
	if err := access.Require(p, required); err != nil {
		return nil, err
	}
	return project, nil
}
