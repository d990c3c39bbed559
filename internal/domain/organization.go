package domain

// OrgStatus is the lifecycle state of an organization.
type OrgStatus string

const (
	OrgStatusActive  OrgStatus = "ACTIVE"
	OrgStatusDeleted OrgStatus = "DELETED"
)

// Organization is the tenant boundary. It owns users, roles and all project
// data; deletion is a soft transition to DELETED, never a row delete.
type Organization struct {
	ID     int64
	Name   string
	Status OrgStatus
}
