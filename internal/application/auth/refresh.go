package auth

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// RefreshInput is the raw refresh token.
type RefreshInput struct {
	RefreshToken string
}

// RefreshResult is a freshly issued token pair.
type RefreshResult struct {
	Tokens *ports.TokenPair
}

// Refresh re-issues a token pair from a valid refresh token. Stateless:
// the token is verified by signature and expiry, then the subject is
// resolved to a live user before re-issuing.
type Refresh struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
}

func NewRefresh(users ports.UserRepository, issuer ports.TokenIssuer) *Refresh {
	return &Refresh{users: users, issuer: issuer}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	if input.RefreshToken == "" {
		return nil, domerrors.ErrInvalidToken
	}
	subject, kind, err := uc.issuer.Verify(input.RefreshToken)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	if kind != ports.TokenKindRefresh {
		return nil, domerrors.ErrInvalidToken
	}
	user, err := uc.users.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	// Subject deleted after issuance: surfaced as not-authenticated, never
	// as a crash.
	if user == nil {
		return nil, domerrors.ErrInvalidToken
	}
	pair, err := uc.issuer.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{Tokens: pair}, nil
}
