package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projects (name, description, status, owner_id, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		project.Name, project.Description, project.Status, project.OwnerID, project.OrganizationID,
	).Scan(&id)
	return id, err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, status, owner_id, organization_id
		FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.OrganizationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.status, p.owner_id, p.organization_id
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.OrganizationID); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2, status = $3 WHERE id = $4`,
		project.Name, project.Description, project.Status, project.ID,
	)
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *ProjectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING`,
		member.ProjectID, member.UserID, member.Role,
	)
	return err
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	return err
}

func (r *ProjectRepository) ListMembers(ctx context.Context, projectID int64) ([]*domain.ProjectMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.project_id, m.user_id, u.email, m.role
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.user_id`, projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ProjectMember
	for rows.Next() {
		var m domain.ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
