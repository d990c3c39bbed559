package access

import (
	"errors"
	"testing"

	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

func principalWith(orgID int64, perms ...domain.Permission) *domain.Principal {
	return &domain.Principal{
		UserID:         1,
		Email:          "user@example.com",
		OrganizationID: orgID,
		RoleName:       "TEST",
		Permissions:    domain.NewPermissionSet(perms...),
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		held     []domain.Permission
		required domain.Permission
		want     bool
	}{
		{"direct grant", []domain.Permission{domain.PermProjectRead}, domain.PermProjectRead, true},
		{"missing", []domain.Permission{domain.PermProjectRead}, domain.PermProjectCreate, false},
		{"empty set", nil, domain.PermProjectRead, false},
		{"wildcard only", []domain.Permission{domain.PermAllowAll}, domain.PermOrganizationDelete, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := principalWith(1, tt.held...)
			if got := Check(p, tt.required); got != tt.want {
				t.Fatalf("Check(%v, %s) = %v, want %v", tt.held, tt.required, got, tt.want)
			}
		})
	}
}

func TestCheckNilPrincipal(t *testing.T) {
	if Check(nil, domain.PermProjectRead) {
		t.Fatal("nil principal must never pass a permission check")
	}
}

func TestWildcardSatisfiesEveryPermission(t *testing.T) {
	p := principalWith(1, domain.PermAllowAll)
	for _, perm := range domain.AllPermissions {
		if !Check(p, perm) {
			t.Fatalf("ALLOW_ALL should satisfy %s", perm)
		}
	}
}

func TestRequire(t *testing.T) {
	p := principalWith(1, domain.PermTaskCreate)
	if err := Require(p, domain.PermTaskCreate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Require(p, domain.PermTaskDelete); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}

func TestRequireSameOrganization(t *testing.T) {
	tests := []struct {
		name         string
		principalOrg int64
		resourceOrg  int64
		wantDenied   bool
	}{
		{"same org", 7, 7, false},
		{"different org", 7, 8, true},
		{"zero org principal", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := principalWith(tt.principalOrg, domain.PermAllowAll)
			err := RequireSameOrganization(p, tt.resourceOrg)
			if tt.wantDenied && !errors.Is(err, domerrors.ErrPermissionDenied) {
				t.Fatalf("want ErrPermissionDenied, got %v", err)
			}
			if !tt.wantDenied && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// The wildcard escapes permission checks but never the tenant boundary.
func TestAllowAllDoesNotCrossTenants(t *testing.T) {
	p := principalWith(1, domain.PermAllowAll)
	if err := RequireSameOrganization(p, 2); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("ALLOW_ALL must not bypass tenant isolation, got %v", err)
	}
}

func TestRequireSameOrganizationNilPrincipal(t *testing.T) {
	if err := RequireSameOrganization(nil, 1); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}
