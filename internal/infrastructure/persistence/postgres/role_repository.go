package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO roles (organization_id, name) VALUES ($1, $2) RETURNING id`,
		role.OrganizationID, role.Name,
	).Scan(&id); err != nil {
		return 0, err
	}
	for perm := range role.Permissions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission) VALUES ($1, $2)`,
			id, perm.String(),
		); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, name FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.OrganizationID, &role.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	perms, err := r.loadPermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	return &role, nil
}

func (r *RoleRepository) ListByOrganization(ctx context.Context, orgID int64) ([]*domain.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, name FROM roles WHERE organization_id = $1 ORDER BY id`, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.OrganizationID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, role := range out {
		perms, err := r.loadPermissions(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		role.Permissions = perms
	}
	return out, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return err
}

// loadPermissions skips tags that fell out of the catalog instead of
// failing the whole load.
func (r *RoleRepository) loadPermissions(ctx context.Context, roleID int64) (domain.PermissionSet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT permission FROM role_permissions WHERE role_id = $1`, roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(domain.PermissionSet)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		perm, ok := domain.ParsePermission(tag)
		if !ok {
			log.Warn().Str("permission", tag).Int64("role_id", roleID).Msg("unknown permission tag in storage")
			continue
		}
		set[perm] = struct{}{}
	}
	return set, rows.Err()
}
