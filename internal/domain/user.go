package domain

// UserStatus tracks the account lifecycle. Enabled is derived state:
// only ACTIVE accounts can authenticate.
type UserStatus string

const (
	// UserStatusPending is a self-registered account awaiting email
	// confirmation.
	UserStatusPending UserStatus = "PENDING"
	// UserStatusInvited is an admin-created account awaiting its first
	// password reset.
	UserStatusInvited UserStatus = "INVITED"
	UserStatusActive  UserStatus = "ACTIVE"
	// UserStatusDisabled is set when an admin removes the user or the
	// organization is deleted. It is never reversible through the public
	// registration or reset flows.
	UserStatusDisabled UserStatus = "DISABLED"
)

// User belongs to exactly one organization and holds exactly one main role.
// Disabled users keep their row but cannot authenticate.
type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Nick           string
	Email          string
	PasswordHash   string
	OrganizationID int64
	RoleID         int64
	Enabled        bool
	Status         UserStatus
	Locked         bool
}
