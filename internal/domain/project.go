package domain

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "ACTIVE"
	ProjectStatusInactive ProjectStatus = "INACTIVE"
)

// ProjectRole tags a project membership. It is descriptive metadata only;
// authorization always goes through the organization-wide role.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleMember ProjectRole = "MEMBER"
)

// Project belongs to one organization through its owner.
type Project struct {
	ID             int64
	Name           string
	Description    string
	Status         ProjectStatus
	OwnerID        int64
	OrganizationID int64
}

// ProjectMember associates a user with a project. Composite identity
// (ProjectID, UserID).
type ProjectMember struct {
	ProjectID int64
	UserID    int64
	Email     string
	Role      ProjectRole
}
