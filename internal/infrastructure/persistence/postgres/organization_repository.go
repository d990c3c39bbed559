package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

var _ ports.OrganizationRepository = (*OrganizationRepository)(nil)

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO organizations (name, status) VALUES ($1, $2) RETURNING id`,
		org.Name, org.Status,
	).Scan(&id)
	return id, err
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	var org domain.Organization
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, status FROM organizations WHERE id = $1`, id,
	).Scan(&org.ID, &org.Name, &org.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE organizations SET name = $1, status = $2 WHERE id = $3`,
		org.Name, org.Status, org.ID,
	)
	return err
}

// SoftDelete flips the organization to DELETED and disables its members in
// one transaction. No rows are removed.
func (r *OrganizationRepository) SoftDelete(ctx context.Context, orgID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE organizations SET status = $1 WHERE id = $2`,
		domain.OrgStatusDeleted, orgID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET enabled = FALSE, status = $2 WHERE organization_id = $1`,
		orgID, domain.UserStatusDisabled,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
