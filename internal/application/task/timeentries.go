package task

import (
	"context"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// AddTimeEntryInput describes time logged against a task by the caller.
type AddTimeEntryInput struct {
	TaskID      int64
	StartTime   time.Time
	EndTime     time.Time
	Description string
}

// AddTimeEntry records time spent by the caller on a task.
func (s *Service) AddTimeEntry(ctx context.Context, p *domain.Principal, input AddTimeEntryInput) (*domain.TimeEntry, error) {
	if _, err := s.loadTask(ctx, p, input.TaskID, domain.PermTimeEntryAdd); err != nil {
		return nil, err
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, domerrors.ErrNoSuchEntity
	}
	entry := &domain.TimeEntry{
		TaskID:      input.TaskID,
		UserID:      p.UserID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Description: input.Description,
	}
	id, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

// RemoveTimeEntry deletes a time entry. Callers may always remove their
// own entries; removing another user's entry needs the read-all grant on
// top of the remove grant.
func (s *Service) RemoveTimeEntry(ctx context.Context, p *domain.Principal, entryID int64) error {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, entry.OrganizationID); err != nil {
		return err
	}
	if err := access.Require(p, domain.PermTimeEntryRemove); err != nil {
		return err
	}
	if entry.UserID != p.UserID {
		if err := access.Require(p, domain.PermTimeEntryReadAll); err != nil {
			return err
		}
	}
	return s.entries.Delete(ctx, entryID)
}

// ListTimeEntries returns a task's time entries. Any member of the owning
// organization may list; without the read-all grant the result is narrowed
// to the caller's own entries.
func (s *Service) ListTimeEntries(ctx context.Context, p *domain.Principal, taskID int64) ([]*domain.TimeEntry, error) {
	if _, err := s.loadTask(ctx, p, taskID, ""); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return narrowToOwn(p, entries), nil
}

// ListProjectTimeEntries returns the time entries across every task of a
// project, narrowed the same way as the per-task listing.
func (s *Service) ListProjectTimeEntries(ctx context.Context, p *domain.Principal, projectID int64) ([]*domain.TimeEntry, error) {
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
	entries, err := s.entries.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return narrowToOwn(p, entries), nil
}

func narrowToOwn(p *domain.Principal, entries []*domain.TimeEntry) []*domain.TimeEntry {
	if access.Check(p, domain.PermTimeEntryReadAll) {
		return entries
	}
	own := entries[:0]
	for _, e := range entries {
		if e.UserID == p.UserID {
			own = append(own, e)
		}
	}
	return own
}
