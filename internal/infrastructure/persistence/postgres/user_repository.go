package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, nick, email, password_hash, organization_id, role_id, enabled, status, locked`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, nick, email, password_hash, organization_id, role_id, enabled, status, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		user.FirstName, user.LastName, user.Nick, user.Email, user.PasswordHash,
		user.OrganizationID, user.RoleID, user.Enabled, user.Status, user.Locked,
	).Scan(&id)
	return id, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Nick, &u.Email, &u.PasswordHash,
		&u.OrganizationID, &u.RoleID, &u.Enabled, &u.Status, &u.Locked,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListByOrganization(ctx context.Context, orgID int64) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE organization_id = $1 ORDER BY id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Nick, &u.Email, &u.PasswordHash,
			&u.OrganizationID, &u.RoleID, &u.Enabled, &u.Status, &u.Locked,
		); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET first_name = $1, last_name = $2 WHERE id = $3`, firstName, lastName, userID)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	return err
}

func (r *UserRepository) SetStatus(ctx context.Context, userID int64, status domain.UserStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET status = $1, enabled = ($1 = 'ACTIVE') WHERE id = $2`,
		status, userID,
	)
	return err
}
