package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Refresh tokens live 20x longer than access tokens.
const refreshExpiryMultiplier = 20

// TokenIssuer implements ports.TokenIssuer with HS256 and a symmetric
// secret. Tokens are fully self-contained; there is no server-side session
// state and no revocation before expiry.
type TokenIssuer struct {
	secret       []byte
	issuer       string
	accessExpiry time.Duration
	now          func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// NewTokenIssuer builds an issuer. The secret must be non-empty; a missing
// secret is a configuration error callers treat as fatal at startup.
func NewTokenIssuer(secret []byte, issuer string, accessExpiry time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if accessExpiry <= 0 {
		accessExpiry = 15 * time.Minute
	}
	return &TokenIssuer{
		secret:       secret,
		issuer:       issuer,
		accessExpiry: accessExpiry,
		now:          time.Now,
	}, nil
}

// Issue mints an access/refresh pair for the subject. Both are signed with
// the same secret and carry only subject, issuer, expiry and kind; the
// permission set is always re-resolved from storage at use time.
func (t *TokenIssuer) Issue(subjectEmail string) (*ports.TokenPair, error) {
	refreshExpiry := t.accessExpiry * refreshExpiryMultiplier
	access, err := t.sign(subjectEmail, ports.TokenKindAccess, t.accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(subjectEmail, ports.TokenKindRefresh, refreshExpiry)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:            access,
		AccessTokenExpiration:  t.accessExpiry.Milliseconds(),
		RefreshToken:           refresh,
		RefreshTokenExpiration: refreshExpiry.Milliseconds(),
	}, nil
}

func (t *TokenIssuer) sign(subject string, kind ports.TokenKind, expiry time.Duration) (string, error) {
	now := t.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Kind: string(kind),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature and expiry and returns the subject and token
// kind. Malformed, tampered and expired tokens all fail with
// ErrInvalidToken; callers never learn which.
func (t *TokenIssuer) Verify(tokenString string) (string, ports.TokenKind, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", "", domerrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", "", domerrors.ErrInvalidToken
	}
	kind := ports.TokenKind(claims.Kind)
	if kind != ports.TokenKindAccess && kind != ports.TokenKindRefresh {
		return "", "", domerrors.ErrInvalidToken
	}
	return claims.Subject, kind, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
