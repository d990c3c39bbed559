package domain

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskPriority orders tasks within a group.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// TaskGroup partitions a project's tasks. OrganizationID is resolved
// through the owning project when loaded.
type TaskGroup struct {
	ID             int64
	Name           string
	ProjectID      int64
	OrganizationID int64
}

// Task lives in a task group; its organization is resolved through the
// ownership chain task -> group -> project -> organization.
type Task struct {
	ID             int64
	Name           string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	TaskGroupID    int64
	OwnerID        int64
	DueDate        *time.Time
	OrganizationID int64
}

// Comment is attached to a task by its author.
type Comment struct {
	ID             int64
	TaskID         int64
	AuthorID       int64
	Content        string
	CreatedAt      time.Time
	OrganizationID int64
}

// TimeEntry records time spent on a task by one user.
type TimeEntry struct {
	ID             int64
	TaskID         int64
	UserID         int64
	StartTime      time.Time
	EndTime        time.Time
	Description    string
	OrganizationID int64
}

// HistoryEntry is an append-only audit line for a task.
type HistoryEntry struct {
	ID        int64
	TaskID    int64
	Message   string
	CreatedAt time.Time
}

// NotificationStatus marks whether a notification has been seen.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

// Notification is a per-user message created by task status changes.
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	Status    NotificationStatus
	CreatedAt time.Time
}
