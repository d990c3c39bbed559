package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO task_comments (task_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		comment.TaskID, comment.AuthorID, comment.Content, comment.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.pool.QueryRow(ctx, `
		SELECT c.id, c.task_id, c.author_id, c.content, c.created_at, p.organization_id
		FROM task_comments c
		JOIN tasks t ON t.id = c.task_id
		JOIN task_groups g ON g.id = t.task_group_id
		JOIN projects p ON p.id = g.project_id
		WHERE c.id = $1`, id,
	).Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.OrganizationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, author_id, content, created_at
		FROM task_comments
		WHERE task_id = $1
		ORDER BY created_at`, taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE task_comments SET content = $1 WHERE id = $2`,
		comment.Content, comment.ID,
	)
	return err
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM task_comments WHERE id = $1`, id)
	return err
}
