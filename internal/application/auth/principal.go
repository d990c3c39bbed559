package auth

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// PrincipalResolver turns a verified token subject into a Principal by
// re-reading the user's role and permission set from storage. The result
// lives for one request only.
type PrincipalResolver struct {
	users ports.UserRepository
	roles ports.RoleRepository
}

func NewPrincipalResolver(users ports.UserRepository, roles ports.RoleRepository) *PrincipalResolver {
	return &PrincipalResolver{users: users, roles: roles}
}

// Resolve fails with ErrUserNotFound when the subject no longer exists.
// A disabled user still resolves: no revocation list is kept, so issued
// tokens stay valid for their full TTL.
func (r *PrincipalResolver) Resolve(ctx context.Context, subjectEmail string) (*domain.Principal, error) {
	user, err := r.users.GetByEmail(ctx, subjectEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	role, err := r.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return &domain.Principal{
		UserID:         user.ID,
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
		RoleName:       role.Name,
		Permissions:    role.Permissions,
	}, nil
}
