package middleware

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/domain"
)

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal injects the resolved principal into the context.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the principal from the context, or nil.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	v := ctx.Value(principalContextKey)
	if v == nil {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}
