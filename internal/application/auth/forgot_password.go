package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
)

// Reset links expire after one hour.
const resetTokenTTL = time.Hour

// ForgotPassword creates a reset token and enqueues the email. It never
// reveals whether the email exists.
type ForgotPassword struct {
	users    ports.UserRepository
	tokens   ports.AuthTokenStore
	enqueuer ports.TaskEnqueuer
}

func NewForgotPassword(users ports.UserRepository, tokens ports.AuthTokenStore, enqueuer ports.TaskEnqueuer) *ForgotPassword {
	return &ForgotPassword{users: users, tokens: tokens, enqueuer: enqueuer}
}

func (uc *ForgotPassword) Execute(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil
	}
	return uc.CreateResetToken(ctx, user.ID, user.Email)
}

// CreateResetToken also backs the invited-user flow: an admin pre-creates
// a disabled account and the invite email carries this token.
func (uc *ForgotPassword) CreateResetToken(ctx context.Context, userID int64, email string) error {
	token := uuid.NewString()
	expiresAt := time.Now().Add(resetTokenTTL).Unix()
	if err := uc.tokens.CreateResetToken(ctx, userID, token, expiresAt); err != nil {
		return err
	}
	_ = uc.enqueuer.EnqueueSendPasswordReset(ctx, email, token)
	return nil
}
