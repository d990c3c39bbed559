// Package user implements the self-service profile operations.
package user

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Profile is the caller's own account view.
type Profile struct {
	UserID           int64
	FirstName        string
	LastName         string
	Nick             string
	Email            string
	OrganizationID   int64
	OrganizationName string
	RoleName         string
	Permissions      []domain.Permission
}

// ProfileService reads and updates the caller's own account.
type ProfileService struct {
	users ports.UserRepository
	orgs  ports.OrganizationRepository
}

func NewProfileService(users ports.UserRepository, orgs ports.OrganizationRepository) *ProfileService {
	return &ProfileService{users: users, orgs: orgs}
}

// Get returns the caller's profile with the effective permission list.
func (s *ProfileService) Get(ctx context.Context, p *domain.Principal) (*Profile, error) {
	if p == nil {
		return nil, domerrors.ErrPermissionDenied
	}
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	profile := &Profile{
		UserID:         user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Nick:           user.Nick,
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
		RoleName:       p.RoleName,
		Permissions:    p.Permissions.List(),
	}
	org, err := s.orgs.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org != nil {
		profile.OrganizationName = org.Name
	}
	return profile, nil
}

// Update rewrites the caller's display names.
func (s *ProfileService) Update(ctx context.Context, p *domain.Principal, firstName, lastName string) error {
	if p == nil {
		return domerrors.ErrPermissionDenied
	}
	return s.users.UpdateProfile(ctx, p.UserID, firstName, lastName)
}
