package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwolniarski/project-management-backend/internal/application/org"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Confirmation links expire after 15 minutes.
const confirmationTokenTTL = 15 * time.Minute

// RegisterInput creates a new organization with its first user.
type RegisterInput struct {
	OrganizationName string
	FirstName        string
	LastName         string
	Email            string
	Password         string
}

// RegisterResult reports the created entities.
type RegisterResult struct {
	OrganizationID int64
	UserID         int64
}

// Register creates the organization, provisions the default role tiers and
// registers the first user with the SUPER_ADMIN role. When email
// confirmation is on, the user starts disabled and a confirmation token is
// mailed out.
type Register struct {
	users             ports.UserRepository
	orgs              ports.OrganizationRepository
	roles             ports.RoleRepository
	tokens            ports.AuthTokenStore
	hasher            ports.PasswordHasher
	enqueuer          ports.TaskEnqueuer
	emailConfirmation bool
}

func NewRegister(users ports.UserRepository, orgs ports.OrganizationRepository, roles ports.RoleRepository, tokens ports.AuthTokenStore, hasher ports.PasswordHasher, enqueuer ports.TaskEnqueuer, emailConfirmation bool) *Register {
	return &Register{
		users:             users,
		orgs:              orgs,
		roles:             roles,
		tokens:            tokens,
		hasher:            hasher,
		enqueuer:          enqueuer,
		emailConfirmation: emailConfirmation,
	}
}

func (uc *Register) Execute(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	existing, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Only a registration that never got confirmed may be retried.
		// Invited and admin-disabled accounts keep the address reserved;
		// re-registering must not re-enable them.
		if existing.Status != domain.UserStatusPending {
			return nil, domerrors.ErrEmailTaken
		}
		result := &RegisterResult{OrganizationID: existing.OrganizationID, UserID: existing.ID}
		if !uc.emailConfirmation {
			return result, uc.users.SetStatus(ctx, existing.ID, domain.UserStatusActive)
		}
		return result, uc.sendConfirmation(ctx, existing.ID, existing.Email)
	}

	orgID, err := uc.orgs.Create(ctx, &domain.Organization{
		Name:   input.OrganizationName,
		Status: domain.OrgStatusActive,
	})
	if err != nil {
		return nil, err
	}
	superAdmin, err := org.ProvisionDefaultRoles(ctx, uc.roles, orgID)
	if err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Nick:           nickFromEmail(input.Email),
		Email:          input.Email,
		PasswordHash:   hash,
		OrganizationID: orgID,
		RoleID:         superAdmin.ID,
		Enabled:        !uc.emailConfirmation,
		Status:         domain.UserStatusActive,
	}
	if uc.emailConfirmation {
		user.Status = domain.UserStatusPending
	}
	userID, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if uc.emailConfirmation {
		if err := uc.sendConfirmation(ctx, userID, input.Email); err != nil {
			return nil, err
		}
	}
	return &RegisterResult{OrganizationID: orgID, UserID: userID}, nil
}

func (uc *Register) sendConfirmation(ctx context.Context, userID int64, email string) error {
	token := uuid.NewString()
	expiresAt := time.Now().Add(confirmationTokenTTL).Unix()
	if err := uc.tokens.CreateConfirmationToken(ctx, userID, token, expiresAt); err != nil {
		return err
	}
	_ = uc.enqueuer.EnqueueSendConfirmation(ctx, email, token)
	return nil
}

func nickFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
