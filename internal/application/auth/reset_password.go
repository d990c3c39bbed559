package auth

import (
	"context"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// ResetPassword validates the reset token and replaces the password.
// Completing the reset is what activates invited accounts; for every
// other status the password changes and the status stays put, so an
// admin-disabled account cannot reset itself back in.
type ResetPassword struct {
	users  ports.UserRepository
	tokens ports.AuthTokenStore
	hasher ports.PasswordHasher
}

func NewResetPassword(users ports.UserRepository, tokens ports.AuthTokenStore, hasher ports.PasswordHasher) *ResetPassword {
	return &ResetPassword{users: users, tokens: tokens, hasher: hasher}
}

func (uc *ResetPassword) Execute(ctx context.Context, token, newPassword string) error {
	userID, expiresAt, used, err := uc.tokens.GetResetToken(ctx, token)
	if err != nil || used {
		return domerrors.ErrPermissionDenied
	}
	if time.Now().Unix() > expiresAt {
		return domerrors.ErrTokenExpired
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrPermissionDenied
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := uc.tokens.MarkResetUsed(ctx, token); err != nil {
		return err
	}
	if user.Status == domain.UserStatusInvited {
		return uc.users.SetStatus(ctx, userID, domain.UserStatusActive)
	}
	return nil
}
