package ports

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/domain"
)

// UserRepository defines persistence for users. Lookups return nil without
// error when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetStatus(ctx context.Context, userID int64, status domain.UserStatus) error
}

// OrganizationRepository defines persistence for organizations.
// SoftDelete flips the status to DELETED and disables every member user in
// a single transaction.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	SoftDelete(ctx context.Context, orgID int64) error
}

// RoleRepository defines persistence for organization-scoped roles and
// their permission sets.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]*domain.Role, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectRepository defines persistence for projects and their memberships.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, member *domain.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
	ListMembers(ctx context.Context, projectID int64) ([]*domain.ProjectMember, error)
}
