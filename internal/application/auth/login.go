package auth

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// LoginInput carries the submitted credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued token pair.
type LoginResult struct {
	Tokens *ports.TokenPair
}

// Login turns a login attempt into a token pair: pure read plus hash
// comparison, nothing persisted.
type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer) *Login {
	return &Login{users: users, hasher: hasher, issuer: issuer}
}

// Execute verifies the credentials and mints tokens. Unknown email, wrong
// password, disabled and locked accounts all fail with the same
// ErrInvalidCredentials so callers cannot enumerate users.
func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Enabled || user.Locked {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	pair, err := uc.issuer.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair}, nil
}
