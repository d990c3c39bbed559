package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/auth"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type staticResolver struct {
	principal *domain.Principal
	err       error
}

func (r staticResolver) Resolve(context.Context, string) (*domain.Principal, error) {
	return r.principal, r.err
}

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), "pm-backend", 0)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return issuer
}

func TestAuthGuard(t *testing.T) {
	issuer := newIssuer(t)
	pair, err := issuer.Issue("jan@acme.io")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	principal := &domain.Principal{UserID: 1, Email: "jan@acme.io", OrganizationID: 2}
	guard := middleware.NewAuthGuard(issuer, staticResolver{principal: principal})

	var captured *domain.Principal
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid access token", authHeader: "Bearer " + pair.AccessToken, wantStatus: http.StatusOK},
		{name: "refresh token rejected", authHeader: "Bearer " + pair.RefreshToken, wantStatus: http.StatusUnauthorized},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = nil
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && captured != principal {
				t.Fatal("principal should be set in the request context")
			}
		})
	}
}

func TestAuthGuardSubjectGone(t *testing.T) {
	issuer := newIssuer(t)
	pair, err := issuer.Issue("ghost@acme.io")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	guard := middleware.NewAuthGuard(issuer, staticResolver{err: errors.New("user not found")})
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

var _ ports.TokenIssuer = (*auth.TokenIssuer)(nil)
