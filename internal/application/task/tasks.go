package task

import (
	"context"
	"fmt"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// CreateTaskInput describes a new task inside a group.
type CreateTaskInput struct {
	TaskGroupID int64
	Name        string
	Description string
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// CreateTask persists a task owned by the caller, starting in TODO, and
// records the creation in the task history.
func (s *Service) CreateTask(ctx context.Context, p *domain.Principal, input CreateTaskInput) (*domain.Task, error) {
	group, err := s.loadGroup(ctx, p, input.TaskGroupID, domain.PermTaskCreate)
	if err != nil {
		return nil, err
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	task := &domain.Task{
		Name:           input.Name,
		Description:    input.Description,
		Status:         domain.TaskStatusTodo,
		Priority:       priority,
		TaskGroupID:    group.ID,
		OwnerID:        p.UserID,
		DueDate:        input.DueDate,
		OrganizationID: group.OrganizationID,
	}
	id, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id
	s.appendHistory(ctx, id, fmt.Sprintf("Task created by %s", p.Email))
	return task, nil
}

// UpdateTaskInput carries the mutable task fields.
type UpdateTaskInput struct {
	Name        string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	OwnerID     int64
	DueDate     *time.Time
}

// UpdateTask rewrites the task. A status transition is appended to the
// history and the task owner is notified.
func (s *Service) UpdateTask(ctx context.Context, p *domain.Principal, taskID int64, input UpdateTaskInput) error {
	task, err := s.loadTask(ctx, p, taskID, domain.PermTaskUpdate)
	if err != nil {
		return err
	}
	prevStatus := task.Status
	task.Name = input.Name
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority
	task.DueDate = input.DueDate
	if input.OwnerID != 0 {
		task.OwnerID = input.OwnerID
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return err
	}
	s.appendHistory(ctx, taskID, fmt.Sprintf("Task updated by %s", p.Email))
	if task.Status != prevStatus {
		s.appendHistory(ctx, taskID, fmt.Sprintf("Status changed from %s to %s", prevStatus, task.Status))
		s.notifyOwner(ctx, task, fmt.Sprintf("Task %q moved to %s", task.Name, task.Status))
	}
	return nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, p *domain.Principal, taskID int64) error {
	if _, err := s.loadTask(ctx, p, taskID, domain.PermTaskDelete); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// History returns the task's audit trail.
func (s *Service) History(ctx context.Context, p *domain.Principal, taskID int64) ([]*domain.HistoryEntry, error) {
	if _, err := s.loadTask(ctx, p, taskID, domain.PermTaskHistoryRead); err != nil {
		return nil, err
	}
	return s.history.ListByTask(ctx, taskID)
}

// Notifications returns the caller's notifications.
func (s *Service) Notifications(ctx context.Context, p *domain.Principal) ([]*domain.Notification, error) {
	if p == nil {
		return nil, domerrors.ErrPermissionDenied
	}
	return s.notifications.ListByUser(ctx, p.UserID)
}

// MarkNotificationRead marks one of the caller's notifications as read.
// Other users' notifications are unaffected.
func (s *Service) MarkNotificationRead(ctx context.Context, p *domain.Principal, notificationID int64) error {
	if p == nil {
		return domerrors.ErrPermissionDenied
	}
	return s.notifications.MarkRead(ctx, notificationID, p.UserID)
}

// appendHistory records an audit line. History is best-effort; a write
// failure does not fail the operation that produced it.
func (s *Service) appendHistory(ctx context.Context, taskID int64, message string) {
	_ = s.history.Append(ctx, &domain.HistoryEntry{
		TaskID:    taskID,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

func (s *Service) notifyOwner(ctx context.Context, task *domain.Task, message string) {
	if task.OwnerID == 0 {
		return
	}
	_, _ = s.notifications.Create(ctx, &domain.Notification{
		UserID:    task.OwnerID,
		Message:   message,
		Status:    domain.NotificationUnread,
		CreatedAt: time.Now(),
	})
}

func (s *Service) loadTask(ctx context.Context, p *domain.Principal, taskID int64, required domain.Permission) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, task.OrganizationID); err != nil {
		return nil, err
	}
	// An empty permission means the operation is open to every member of
	// the owning organization.
	if required != "" {
		if err := access.Require(p, required); err != nil {
			return nil, err
		}
	}
	return task, nil
}
