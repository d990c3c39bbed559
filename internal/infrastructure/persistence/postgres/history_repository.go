package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type TaskHistoryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TaskHistoryRepository = (*TaskHistoryRepository)(nil)

func NewTaskHistoryRepository(pool *pgxpool.Pool) *TaskHistoryRepository {
	return &TaskHistoryRepository{pool: pool}
}

func (r *TaskHistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO task_history (task_id, message, created_at) VALUES ($1, $2, $3)`,
		entry.TaskID, entry.Message, entry.CreatedAt,
	)
	return err
}

func (r *TaskHistoryRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, message, created_at
		FROM task_history
		WHERE task_id = $1
		ORDER BY id`, taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.HistoryEntry
	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(&h.ID, &h.TaskID, &h.Message, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

type NotificationRepository struct {
	pool *pgxpool.Pool
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		n.UserID, n.Message, n.Status, n.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, message, status, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY id DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Status, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead is scoped to the owner so one user cannot touch another's
// notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET status = $1 WHERE id = $2 AND user_id = $3`,
		domain.NotificationRead, id, userID,
	)
	return err
}
