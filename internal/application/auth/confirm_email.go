package auth

import (
	"context"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// ConfirmEmail completes registration: validates the confirmation token
// and activates the pending user.
type ConfirmEmail struct {
	users  ports.UserRepository
	tokens ports.AuthTokenStore
}

func NewConfirmEmail(users ports.UserRepository, tokens ports.AuthTokenStore) *ConfirmEmail {
	return &ConfirmEmail{users: users, tokens: tokens}
}

func (uc *ConfirmEmail) Execute(ctx context.Context, token string) error {
	userID, expiresAt, confirmed, err := uc.tokens.GetConfirmationToken(ctx, token)
	if err != nil {
		return domerrors.ErrNoSuchEntity
	}
	if confirmed {
		return domerrors.ErrEmailConfirmed
	}
	if time.Now().Unix() > expiresAt {
		return domerrors.ErrTokenExpired
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrNoSuchEntity
	}
	// A token issued before the account was disabled must not revive it.
	if user.Status != domain.UserStatusPending {
		return domerrors.ErrPermissionDenied
	}
	if err := uc.tokens.MarkConfirmed(ctx, token); err != nil {
		return err
	}
	return uc.users.SetStatus(ctx, userID, domain.UserStatusActive)
}
