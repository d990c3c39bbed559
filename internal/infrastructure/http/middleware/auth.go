package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

// PrincipalResolver turns a verified token subject into a request
// principal. Satisfied by auth.PrincipalResolver.
type PrincipalResolver interface {
	Resolve(ctx context.Context, subjectEmail string) (*domain.Principal, error)
}

// AuthGuard verifies the bearer token and sets the principal in context
// (see PrincipalFromContext). Only access tokens pass; refresh tokens are
// rejected here and accepted only by the refresh endpoint.
type AuthGuard struct {
	issuer   ports.TokenIssuer
	resolver PrincipalResolver
}

func NewAuthGuard(issuer ports.TokenIssuer, resolver PrincipalResolver) *AuthGuard {
	return &AuthGuard{issuer: issuer, resolver: resolver}
}

func (m *AuthGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeErr(w, http.StatusUnauthorized, "missing or invalid authorization")
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")
		subject, kind, err := m.issuer.Verify(tokenString)
		if err != nil || kind != ports.TokenKindAccess {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		principal, err := m.resolver.Resolve(r.Context(), subject)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
