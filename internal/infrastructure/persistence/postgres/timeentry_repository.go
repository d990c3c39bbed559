package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type TimeEntryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TimeEntryRepository = (*TimeEntryRepository)(nil)

func NewTimeEntryRepository(pool *pgxpool.Pool) *TimeEntryRepository {
	return &TimeEntryRepository{pool: pool}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO time_entries (task_id, user_id, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		entry.TaskID, entry.UserID, entry.StartTime, entry.EndTime, entry.Description,
	).Scan(&id)
	return id, err
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	err := r.pool.QueryRow(ctx, `
		SELECT e.id, e.task_id, e.user_id, e.start_time, e.end_time, e.description, p.organization_id
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		JOIN task_groups g ON g.id = t.task_group_id
		JOIN projects p ON p.id = g.project_id
		WHERE e.id = $1`, id,
	).Scan(&e.ID, &e.TaskID, &e.UserID, &e.StartTime, &e.EndTime, &e.Description, &e.OrganizationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *TimeEntryRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.TimeEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, user_id, start_time, end_time, description
		FROM time_entries
		WHERE task_id = $1
		ORDER BY start_time`, taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.StartTime, &e.EndTime, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *TimeEntryRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.TimeEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.task_id, e.user_id, e.start_time, e.end_time, e.description
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		JOIN task_groups g ON g.id = t.task_group_id
		WHERE g.project_id = $1
		ORDER BY e.start_time`, projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.StartTime, &e.EndTime, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	return err
}
