package org_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mwolniarski/project-management-backend/internal/application/apptest"
	"github.com/mwolniarski/project-management-backend/internal/application/org"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (plainHasher) Verify(password, hash string) bool    { return hash == "hash:"+password }

// recordingInviter captures the invited user instead of sending mail.
type recordingInviter struct {
	userID int64
	email  string
}

func (r *recordingInviter) CreateResetToken(_ context.Context, userID int64, email string) error {
	r.userID, r.email = userID, email
	return nil
}

type fixture struct {
	store   *apptest.Store
	service *org.Service
	inviter *recordingInviter
	orgID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	orgID, err := store.Orgs().Create(context.Background(), &domain.Organization{Name: "acme", Status: domain.OrgStatusActive})
	if err != nil {
		t.Fatalf("create org: %v", err)
	}
	inviter := &recordingInviter{}
	return &fixture{
		store:   store,
		service: org.NewService(store.Orgs(), store.Users(), store.Roles(), plainHasher{}, inviter),
		inviter: inviter,
		orgID:   orgID,
	}
}

func (f *fixture) principal(perms ...domain.Permission) *domain.Principal {
	return &domain.Principal{
		UserID:         1000,
		Email:          "admin@acme.io",
		OrganizationID: f.orgID,
		RoleName:       domain.RoleNameAdmin,
		Permissions:    domain.NewPermissionSet(perms...),
	}
}

func TestProvisionDefaultRolesTiers(t *testing.T) {
	store := apptest.NewStore()
	ctx := context.Background()
	superAdmin, err := org.ProvisionDefaultRoles(ctx, store.Roles(), 7)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if superAdmin.Name != domain.RoleNameSuperAdmin {
		t.Fatalf("returned role = %q, want SUPER_ADMIN", superAdmin.Name)
	}

	roles, err := store.Roles().ListByOrganization(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	byName := make(map[string]*domain.Role, len(roles))
	for _, r := range roles {
		byName[r.Name] = r
	}
	if len(byName) != 4 {
		t.Fatalf("got %d roles, want 4", len(byName))
	}

	superset := func(big, small *domain.Role) {
		t.Helper()
		for p := range small.Permissions {
			if !big.Permissions.Contains(p) {
				t.Fatalf("%s is missing %s held by %s", big.Name, p, small.Name)
			}
		}
	}
	superset(byName[domain.RoleNameManager], byName[domain.RoleNameUser])
	superset(byName[domain.RoleNameAdmin], byName[domain.RoleNameManager])
	superset(byName[domain.RoleNameSuperAdmin], byName[domain.RoleNameAdmin])

	if !byName[domain.RoleNameSuperAdmin].Permissions.Contains(domain.PermAllowAll) {
		t.Fatal("SUPER_ADMIN should hold the wildcard")
	}
	if byName[domain.RoleNameAdmin].Permissions.Contains(domain.PermAllowAll) {
		t.Fatal("ADMIN should not hold the wildcard")
	}
	if byName[domain.RoleNameUser].Permissions.Contains(domain.PermTaskCreate) {
		t.Fatal("USER should not create tasks")
	}
}

func TestProvisionedSetsDoNotAlias(t *testing.T) {
	sets := domain.DefaultRoleSets()
	sets[domain.RoleNameUser][domain.PermOrganizationDelete] = struct{}{}

	fresh := domain.DefaultRoleSets()
	if fresh[domain.RoleNameUser].Contains(domain.PermOrganizationDelete) {
		t.Fatal("mutating one returned set must not leak into later calls")
	}
}

func TestAddRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.service.AddRole(ctx, f.principal(domain.PermRoleCreate), "REVIEWER", []string{"PROJECT_READ", "TASK_ADD_COMMENT"})
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if role.OrganizationID != f.orgID {
		t.Fatalf("role org = %d, want %d", role.OrganizationID, f.orgID)
	}
	if !role.Permissions.Contains(domain.PermProjectRead) {
		t.Fatal("role should carry PROJECT_READ")
	}

	if _, err := f.service.AddRole(ctx, f.principal(), "NOPE", []string{"PROJECT_READ"}); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("without grant err = %v, want ErrPermissionDenied", err)
	}
	if _, err := f.service.AddRole(ctx, f.principal(domain.PermRoleCreate), "BAD", []string{"NOT_A_PERMISSION"}); !errors.Is(err, domerrors.ErrNoSuchEntity) {
		t.Fatalf("invalid tag err = %v, want ErrNoSuchEntity", err)
	}
}

func TestDeleteRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	role, err := f.service.AddRole(ctx, f.principal(domain.PermRoleCreate), "TEMP", nil)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}

	if err := f.service.DeleteRole(ctx, f.principal(domain.PermRoleDelete), role.ID); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	if err := f.service.DeleteRole(ctx, f.principal(domain.PermRoleDelete), role.ID); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("missing role err = %v, want ErrPermissionDenied", err)
	}
}

func TestDeleteRoleCrossOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	role, err := f.service.AddRole(ctx, f.principal(domain.PermRoleCreate), "LOCAL", nil)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}

	outsider := &domain.Principal{
		UserID:         2000,
		Email:          "root@other.io",
		OrganizationID: f.orgID + 99,
		Permissions:    domain.NewPermissionSet(domain.PermAllowAll),
	}
	if err := f.service.DeleteRole(ctx, outsider, role.ID); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("cross-org wildcard err = %v, want ErrPermissionDenied", err)
	}
}

func TestInviteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	role, err := f.service.AddRole(ctx, f.principal(domain.PermRoleCreate), "MEMBER", []string{"PROJECT_READ"})
	if err != nil {
		t.Fatalf("add role: %v", err)
	}

	input := org.InviteUserInput{FirstName: "Ola", LastName: "Nowak", Email: "ola@acme.io", RoleID: role.ID}
	if err := f.service.InviteUser(ctx, f.principal(domain.PermOrganizationAddUser), input); err != nil {
		t.Fatalf("invite: %v", err)
	}

	user, err := f.store.Users().GetByEmail(ctx, "ola@acme.io")
	if err != nil || user == nil {
		t.Fatalf("load invited user: %v", err)
	}
	if user.Enabled {
		t.Fatal("invited user must start disabled")
	}
	if user.Status != domain.UserStatusInvited {
		t.Fatalf("invited user status = %s, want INVITED", user.Status)
	}
	if user.OrganizationID != f.orgID || user.RoleID != role.ID {
		t.Fatalf("invited user wired to org %d role %d", user.OrganizationID, user.RoleID)
	}
	if f.inviter.userID != user.ID || f.inviter.email != "ola@acme.io" {
		t.Fatal("invite should start the password-reset flow")
	}

	if err := f.service.InviteUser(ctx, f.principal(domain.PermOrganizationAddUser), input); !errors.Is(err, domerrors.ErrEmailTaken) {
		t.Fatalf("duplicate invite err = %v, want ErrEmailTaken", err)
	}
}

func TestRemoveUserDisablesAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := &domain.User{Email: "gone@acme.io", OrganizationID: f.orgID, Enabled: true}
	if _, err := f.store.Users().Create(ctx, target); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := f.service.RemoveUser(ctx, f.principal(domain.PermOrganizationDeleteUser), "gone@acme.io"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ := f.store.Users().GetByEmail(ctx, "gone@acme.io")
	if got == nil {
		t.Fatal("removal must not delete the row")
	}
	if got.Enabled {
		t.Fatal("removed user should be disabled")
	}
	if got.Status != domain.UserStatusDisabled {
		t.Fatalf("removed user status = %s, want DISABLED", got.Status)
	}
}

func TestRemoveUserSelfDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.principal(domain.PermOrganizationDeleteUser)
	if _, err := f.store.Users().Create(ctx, &domain.User{Email: p.Email, OrganizationID: f.orgID, Enabled: true}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.service.RemoveUser(ctx, p, p.Email); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("self-removal err = %v, want ErrPermissionDenied", err)
	}
}

func TestDeleteOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.store.Users().Create(ctx, &domain.User{Email: "member@acme.io", OrganizationID: f.orgID, Enabled: true}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := f.service.Delete(ctx, f.principal(domain.PermOrganizationDelete), f.orgID); err != nil {
		t.Fatalf("delete org: %v", err)
	}
	got, _ := f.store.Orgs().GetByID(ctx, f.orgID)
	if got == nil || got.Status != domain.OrgStatusDeleted {
		t.Fatalf("org status = %+v, want DELETED row kept", got)
	}
	member, _ := f.store.Users().GetByEmail(ctx, "member@acme.io")
	if member.Enabled {
		t.Fatal("members should be disabled with the organization")
	}
	if member.Status != domain.UserStatusDisabled {
		t.Fatalf("member status = %s, want DISABLED", member.Status)
	}
}

func TestUpdateOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.service.Update(ctx, f.principal(domain.PermOrganizationUpdate), f.orgID, "acme v2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := f.store.Orgs().GetByID(ctx, f.orgID)
	if got.Name != "acme v2" {
		t.Fatalf("name = %q, want acme v2", got.Name)
	}

	if err := f.service.Update(ctx, f.principal(), f.orgID, "x"); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("without grant err = %v, want ErrPermissionDenied", err)
	}
}
