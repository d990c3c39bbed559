package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/apptest"
	"github.com/mwolniarski/project-management-backend/internal/application/auth"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// plainHasher marks hashes with a prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (plainHasher) Verify(password, hash string) bool    { return hash == "hash:"+password }

// stubIssuer encodes the kind and subject into the token string.
type stubIssuer struct{}

func (stubIssuer) Issue(subjectEmail string) (*ports.TokenPair, error) {
	return &ports.TokenPair{
		AccessToken:            "access:" + subjectEmail,
		AccessTokenExpiration:  900000,
		RefreshToken:           "refresh:" + subjectEmail,
		RefreshTokenExpiration: 18000000,
	}, nil
}

func (stubIssuer) Verify(token string) (string, ports.TokenKind, error) {
	switch {
	case strings.HasPrefix(token, "access:"):
		return strings.TrimPrefix(token, "access:"), ports.TokenKindAccess, nil
	case strings.HasPrefix(token, "refresh:"):
		return strings.TrimPrefix(token, "refresh:"), ports.TokenKindRefresh, nil
	}
	return "", "", errors.New("malformed token")
}

// recordingEnqueuer captures tokens that would be mailed out.
type recordingEnqueuer struct {
	confirmations []string
	resets        []string
}

func (r *recordingEnqueuer) EnqueueSendConfirmation(_ context.Context, _, token string) error {
	r.confirmations = append(r.confirmations, token)
	return nil
}

func (r *recordingEnqueuer) EnqueueSendPasswordReset(_ context.Context, _, token string) error {
	r.resets = append(r.resets, token)
	return nil
}

func seedUser(t *testing.T, store *apptest.Store, email string, status domain.UserStatus) *domain.User {
	t.Helper()
	ctx := context.Background()
	orgID, err := store.Orgs().Create(ctx, &domain.Organization{Name: "acme", Status: domain.OrgStatusActive})
	if err != nil {
		t.Fatalf("create org: %v", err)
	}
	roleID, err := store.Roles().Create(ctx, &domain.Role{
		OrganizationID: orgID,
		Name:           domain.RoleNameSuperAdmin,
		Permissions:    domain.NewPermissionSet(domain.PermAllowAll),
	})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	user := &domain.User{
		FirstName:      "Jan",
		LastName:       "Kowalski",
		Email:          email,
		PasswordHash:   "hash:s3cret",
		OrganizationID: orgID,
		RoleID:         roleID,
		Enabled:        status == domain.UserStatusActive,
		Status:         status,
	}
	if _, err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "jan@acme.io", domain.UserStatusActive)
	uc := auth.NewLogin(store.Users(), plainHasher{}, stubIssuer{})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "jan@acme.io", password: "s3cret"},
		{name: "wrong password", email: "jan@acme.io", password: "nope", wantErr: domerrors.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@acme.io", password: "s3cret", wantErr: domerrors.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), auth.LoginInput{Email: tt.email, Password: tt.password})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && result.Tokens.AccessToken == "" {
				t.Fatal("expected an access token")
			}
		})
	}
}

func TestLoginDisabledUser(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "off@acme.io", domain.UserStatusDisabled)
	uc := auth.NewLogin(store.Users(), plainHasher{}, stubIssuer{})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "off@acme.io", Password: "s3cret"})
	if !errors.Is(err, domerrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefresh(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "jan@acme.io", domain.UserStatusActive)
	uc := auth.NewRefresh(store.Users(), stubIssuer{})

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid refresh token", token: "refresh:jan@acme.io"},
		{name: "access token rejected", token: "access:jan@acme.io", wantErr: domerrors.ErrInvalidToken},
		{name: "empty token", token: "", wantErr: domerrors.ErrInvalidToken},
		{name: "garbage token", token: "xyz", wantErr: domerrors.ErrInvalidToken},
		{name: "subject gone", token: "refresh:ghost@acme.io", wantErr: domerrors.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: tt.token})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && result.Tokens.RefreshToken == "" {
				t.Fatal("expected a refresh token")
			}
		})
	}
}

func TestRegisterProvisionsOrganization(t *testing.T) {
	store := apptest.NewStore()
	uc := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, apptest.NoopEnqueuer{}, false)

	result, err := uc.Execute(context.Background(), auth.RegisterInput{
		OrganizationName: "acme",
		FirstName:        "Jan",
		LastName:         "Kowalski",
		Email:            "jan@acme.io",
		Password:         "s3cret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := store.Users().GetByID(context.Background(), result.UserID)
	if err != nil || user == nil {
		t.Fatalf("load user: %v", err)
	}
	if !user.Enabled {
		t.Fatal("user should be enabled when confirmation is off")
	}
	if user.Nick != "jan" {
		t.Fatalf("nick = %q, want jan", user.Nick)
	}

	roles, err := store.Roles().ListByOrganization(context.Background(), result.OrganizationID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 4 {
		t.Fatalf("got %d default roles, want 4", len(roles))
	}
	role, err := store.Roles().GetByID(context.Background(), user.RoleID)
	if err != nil || role == nil {
		t.Fatalf("load role: %v", err)
	}
	if role.Name != domain.RoleNameSuperAdmin {
		t.Fatalf("first user role = %q, want %q", role.Name, domain.RoleNameSuperAdmin)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "jan@acme.io", domain.UserStatusActive)
	uc := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, apptest.NoopEnqueuer{}, false)

	_, err := uc.Execute(context.Background(), auth.RegisterInput{
		OrganizationName: "other",
		Email:            "jan@acme.io",
		Password:         "x",
	})
	if !errors.Is(err, domerrors.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterWithConfirmationStartsDisabled(t *testing.T) {
	store := apptest.NewStore()
	uc := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, apptest.NoopEnqueuer{}, true)

	result, err := uc.Execute(context.Background(), auth.RegisterInput{
		OrganizationName: "acme",
		Email:            "jan@acme.io",
		Password:         "s3cret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user, _ := store.Users().GetByID(context.Background(), result.UserID)
	if user.Enabled {
		t.Fatal("user should start disabled when confirmation is on")
	}
}

func TestConfirmEmail(t *testing.T) {
	store := apptest.NewStore()
	user := seedUser(t, store, "jan@acme.io", domain.UserStatusPending)
	ctx := context.Background()

	if err := store.AuthTokens().CreateConfirmationToken(ctx, user.ID, "tok-1", time.Now().Add(time.Minute).Unix()); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	uc := auth.NewConfirmEmail(store.Users(), store.AuthTokens())

	if err := uc.Execute(ctx, "tok-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got, _ := store.Users().GetByID(ctx, user.ID)
	if !got.Enabled {
		t.Fatal("user should be enabled after confirmation")
	}
	if err := uc.Execute(ctx, "tok-1"); !errors.Is(err, domerrors.ErrEmailConfirmed) {
		t.Fatalf("second confirm err = %v, want ErrEmailConfirmed", err)
	}
	if err := uc.Execute(ctx, "no-such-token"); !errors.Is(err, domerrors.ErrNoSuchEntity) {
		t.Fatalf("unknown token err = %v, want ErrNoSuchEntity", err)
	}
}

func TestConfirmEmailExpiredToken(t *testing.T) {
	store := apptest.NewStore()
	user := seedUser(t, store, "jan@acme.io", domain.UserStatusPending)
	ctx := context.Background()

	if err := store.AuthTokens().CreateConfirmationToken(ctx, user.ID, "stale", time.Now().Add(-time.Minute).Unix()); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	uc := auth.NewConfirmEmail(store.Users(), store.AuthTokens())
	if err := uc.Execute(ctx, "stale"); !errors.Is(err, domerrors.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	store := apptest.NewStore()
	uc := auth.NewForgotPassword(store.Users(), store.AuthTokens(), apptest.NoopEnqueuer{})
	if err := uc.Execute(context.Background(), "ghost@acme.io"); err != nil {
		t.Fatalf("err = %v, want nil for unknown email", err)
	}
}

func TestResetPassword(t *testing.T) {
	store := apptest.NewStore()
	user := seedUser(t, store, "jan@acme.io", domain.UserStatusInvited)
	ctx := context.Background()

	if err := store.AuthTokens().CreateResetToken(ctx, user.ID, "reset-1", time.Now().Add(time.Hour).Unix()); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	uc := auth.NewResetPassword(store.Users(), store.AuthTokens(), plainHasher{})

	if err := uc.Execute(ctx, "reset-1", "newpass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ := store.Users().GetByID(ctx, user.ID)
	if got.PasswordHash != "hash:newpass" {
		t.Fatalf("password hash = %q, want rewritten", got.PasswordHash)
	}
	if !got.Enabled {
		t.Fatal("reset should enable the account")
	}
	if err := uc.Execute(ctx, "reset-1", "again"); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("reuse err = %v, want ErrPermissionDenied", err)
	}
}

func TestPrincipalResolver(t *testing.T) {
	store := apptest.NewStore()
	user := seedUser(t, store, "jan@acme.io", domain.UserStatusActive)
	resolver := auth.NewPrincipalResolver(store.Users(), store.Roles())

	p, err := resolver.Resolve(context.Background(), "jan@acme.io")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.UserID != user.ID || p.OrganizationID != user.OrganizationID {
		t.Fatalf("principal = %+v, want user %d in org %d", p, user.ID, user.OrganizationID)
	}
	if !p.HasPermission(domain.PermProjectCreate) {
		t.Fatal("wildcard role should grant every permission")
	}

	if _, err := resolver.Resolve(context.Background(), "ghost@acme.io"); !errors.Is(err, domerrors.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestPrincipalResolverDisabledUserStillResolves(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "off@acme.io", domain.UserStatusDisabled)
	resolver := auth.NewPrincipalResolver(store.Users(), store.Roles())

	if _, err := resolver.Resolve(context.Background(), "off@acme.io"); err != nil {
		t.Fatalf("resolve disabled user: %v", err)
	}
}

func TestRegisterResendsPendingConfirmation(t *testing.T) {
	store := apptest.NewStore()
	enqueuer := &recordingEnqueuer{}
	uc := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, enqueuer, true)
	ctx := context.Background()

	first, err := uc.Execute(ctx, auth.RegisterInput{OrganizationName: "acme", Email: "jan@acme.io", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := uc.Execute(ctx, auth.RegisterInput{OrganizationName: "acme", Email: "jan@acme.io", Password: "s3cret"})
	if err != nil {
		t.Fatalf("retry register: %v", err)
	}
	if second.UserID != first.UserID || second.OrganizationID != first.OrganizationID {
		t.Fatalf("retry created new entities: %+v vs %+v", second, first)
	}
	if len(enqueuer.confirmations) != 2 {
		t.Fatalf("got %d confirmation emails, want 2", len(enqueuer.confirmations))
	}

	confirm := auth.NewConfirmEmail(store.Users(), store.AuthTokens())
	if err := confirm.Execute(ctx, enqueuer.confirmations[1]); err != nil {
		t.Fatalf("confirm with resent token: %v", err)
	}
	user, _ := store.Users().GetByID(ctx, first.UserID)
	if !user.Enabled || user.Status != domain.UserStatusActive {
		t.Fatalf("user = enabled %v status %s, want active", user.Enabled, user.Status)
	}
}

func TestRegisterPendingActivatesWhenConfirmationOff(t *testing.T) {
	store := apptest.NewStore()
	withConfirmation := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, apptest.NoopEnqueuer{}, true)
	ctx := context.Background()

	result, err := withConfirmation.Execute(ctx, auth.RegisterInput{OrganizationName: "acme", Email: "jan@acme.io", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	withoutConfirmation := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, apptest.NoopEnqueuer{}, false)
	if _, err := withoutConfirmation.Execute(ctx, auth.RegisterInput{OrganizationName: "acme", Email: "jan@acme.io", Password: "s3cret"}); err != nil {
		t.Fatalf("retry register: %v", err)
	}
	user, _ := store.Users().GetByID(ctx, result.UserID)
	if !user.Enabled || user.Status != domain.UserStatusActive {
		t.Fatalf("user = enabled %v status %s, want active", user.Enabled, user.Status)
	}
}

func TestRegisterRemovedUserStaysDisabled(t *testing.T) {
	store := apptest.NewStore()
	user := seedUser(t, store, "gone@acme.io", domain.UserStatusDisabled)
	uc := auth.NewRegister(store.Users(), store.Orgs(), store.Roles(), store.AuthTokens(), plainHasher{}, apptest.NoopEnqueuer{}, true)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, auth.RegisterInput{OrganizationName: "acme", Email: "gone@acme.io", Password: "s3cret"}); !errors.Is(err, domerrors.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	// A confirmation token issued before the removal must not revive the
	// account either.
	if err := store.AuthTokens().CreateConfirmationToken(ctx, user.ID, "stale", time.Now().Add(time.Minute).Unix()); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	confirm := auth.NewConfirmEmail(store.Users(), store.AuthTokens())
	if err := confirm.Execute(ctx, "stale"); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("confirm err = %v, want ErrPermissionDenied", err)
	}
	got, _ := store.Users().GetByID(ctx, user.ID)
	if got.Enabled || got.Status != domain.UserStatusDisabled {
		t.Fatalf("user = enabled %v status %s, want still disabled", got.Enabled, got.Status)
	}
}

func TestResetPasswordKeepsRemovedUserDisabled(t *testing.T) {
	store := apptest.NewStore()
	user := seedUser(t, store, "gone@acme.io", domain.UserStatusDisabled)
	ctx := context.Background()

	if err := store.AuthTokens().CreateResetToken(ctx, user.ID, "reset-x", time.Now().Add(time.Hour).Unix()); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	uc := auth.NewResetPassword(store.Users(), store.AuthTokens(), plainHasher{})
	if err := uc.Execute(ctx, "reset-x", "newpass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ := store.Users().GetByID(ctx, user.ID)
	if got.PasswordHash != "hash:newpass" {
		t.Fatalf("password hash = %q, want rewritten", got.PasswordHash)
	}
	if got.Enabled || got.Status != domain.UserStatusDisabled {
		t.Fatalf("user = enabled %v status %s, want still disabled", got.Enabled, got.Status)
	}
}
