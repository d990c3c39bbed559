package ports

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/domain"
)

// TaskGroupRepository defines persistence for task groups. Loads resolve
// the owning organization through the project so callers can run tenant
// checks without extra queries.
type TaskGroupRepository interface {
	Create(ctx context.Context, group *domain.TaskGroup) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.TaskGroup, error)
	Update(ctx context.Context, group *domain.TaskGroup) error
	Delete(ctx context.Context, id int64) error
}

// TaskRepository defines persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines persistence for task comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id int64) error
}

// TimeEntryRepository defines persistence for task time entries.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeEntry, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.TimeEntry, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.TimeEntry, error)
	Delete(ctx context.Context, id int64) error
}

// TaskHistoryRepository appends and reads the per-task audit trail.
type TaskHistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	ListByTask(ctx context.Context, taskID int64) ([]*domain.HistoryEntry, error)
}

// NotificationRepository defines persistence for user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}
