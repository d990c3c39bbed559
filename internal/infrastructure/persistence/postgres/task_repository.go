package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type TaskGroupRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TaskGroupRepository = (*TaskGroupRepository)(nil)

func NewTaskGroupRepository(pool *pgxpool.Pool) *TaskGroupRepository {
	return &TaskGroupRepository{pool: pool}
}

func (r *TaskGroupRepository) Create(ctx context.Context, group *domain.TaskGroup) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO task_groups (name, project_id) VALUES ($1, $2) RETURNING id`,
		group.Name, group.ProjectID,
	).Scan(&id)
	return id, err
}

// GetByID joins up to the project so the caller gets the owning
// organization without a second query.
func (r *TaskGroupRepository) GetByID(ctx context.Context, id int64) (*domain.TaskGroup, error) {
	var g domain.TaskGroup
	err := r.pool.QueryRow(ctx, `
		SELECT g.id, g.name, g.project_id, p.organization_id
		FROM task_groups g
		JOIN projects p ON p.id = g.project_id
		WHERE g.id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.ProjectID, &g.OrganizationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *TaskGroupRepository) Update(ctx context.Context, group *domain.TaskGroup) error {
	_, err := r.pool.Exec(ctx, `UPDATE task_groups SET name = $1 WHERE id = $2`, group.Name, group.ID)
	return err
}

func (r *TaskGroupRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM task_groups WHERE id = $1`, id)
	return err
}

type TaskRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (name, description, status, priority, task_group_id, owner_id, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		task.Name, task.Description, task.Status, task.Priority,
		task.TaskGroupID, nullableID(task.OwnerID), task.DueDate,
	).Scan(&id)
	return id, err
}

// GetByID resolves the organization through the chain
// task -> group -> project.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	var ownerID *int64
	err := r.pool.QueryRow(ctx, `
		SELECT t.id, t.name, t.description, t.status, t.priority, t.task_group_id, t.owner_id, t.due_date, p.organization_id
		FROM tasks t
		JOIN task_groups g ON g.id = t.task_group_id
		JOIN projects p ON p.id = g.project_id
		WHERE t.id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Status, &t.Priority, &t.TaskGroupID, &ownerID, &t.DueDate, &t.OrganizationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		t.OwnerID = *ownerID
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET name = $1, description = $2, status = $3, priority = $4, owner_id = $5, due_date = $6
		WHERE id = $7`,
		task.Name, task.Description, task.Status, task.Priority,
		nullableID(task.OwnerID), task.DueDate, task.ID,
	)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
