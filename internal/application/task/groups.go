// Package task implements task groups, tasks, comments, time entries and
// the derived history and notification streams. Every resource-scoped
// operation resolves the owning organization through the ownership chain
// and runs the tenant check before the permission check.
package task

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Service bundles the task-tree operations.
type Service struct {
	projects      ports.ProjectRepository
	groups        ports.TaskGroupRepository
	tasks         ports.TaskRepository
	comments      ports.CommentRepository
	entries       ports.TimeEntryRepository
	history       ports.TaskHistoryRepository
	notifications ports.NotificationRepository
	users         ports.UserRepository
}

func NewService(
	projects ports.ProjectRepository,
	groups ports.TaskGroupRepository,
	tasks ports.TaskRepository,
	comments ports.CommentRepository,
	entries ports.TimeEntryRepository,
	history ports.TaskHistoryRepository,
	notifications ports.NotificationRepository,
	users ports.UserRepository,
) *Service {
	return &Service{
		projects:      projects,
		groups:        groups,
		tasks:         tasks,
		comments:      comments,
		entries:       entries,
		history:       history,
		notifications: notifications,
		users:         users,
	}
}

// CreateGroup adds a task group to a project.
func (s *Service) CreateGroup(ctx context.Context, p *domain.Principal, projectID int64, name string) (*domain.TaskGroup, error) {
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
	if err := access.Require(p, domain.PermTaskGroupCreate); err != nil {
		return nil, err
	}
	group := &domain.TaskGroup{
		Name:           name,
		ProjectID:      projectID,
		OrganizationID: project.OrganizationID,
	}
	id, err := s.groups.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id
	return group, nil
}

// UpdateGroup renames a task group.
func (s *Service) UpdateGroup(ctx context.Context, p *domain.Principal, groupID int64, name string) error {
	group, err := s.loadGroup(ctx, p, groupID, domain.PermTaskGroupUpdate)
	if err != nil {
		return err
	}
	group.Name = name
	return s.groups.Update(ctx, group)
}

// DeleteGroup removes a task group.
func (s *Service) DeleteGroup(ctx context.Context, p *domain.Principal, groupID int64) error {
	if _, err := s.loadGroup(ctx, p, groupID, domain.PermTaskGroupDelete); err != nil {
		return err
	}
	return s.groups.Delete(ctx, groupID)
}

func (s *Service) loadGroup(ctx context.Context, p *domain.Principal, groupID int64, required domain.Permission) (*domain.TaskGroup, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, group.OrganizationID); err != nil {
		return nil, err
	}
	if err := access.Require(p, required); err != nil {
		return nil, err
	}
	return group, nil
}
