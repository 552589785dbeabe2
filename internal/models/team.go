package models

import "github.com/google/uuid"

// TeamMember is the denormalized copy of a user embedded in a project.
// Name and Email are not kept in sync with the users table automatically.
type TeamMember struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

const (
	RoleOwner     = "owner"
	RoleDeveloper = "developer"
	RoleTester    = "tester"
	RoleDesigner  = "designer"
	RoleLead      = "lead"
)

// DefaultRole is applied when a member is added without a role.
const DefaultRole = RoleDeveloper

// IsAssignableRole reports whether role can be given to a non-owner member.
func IsAssignableRole(role string) bool {
	switch role {
	case RoleDeveloper, RoleTester, RoleDesigner, RoleLead:
		return true
	}
	return false
}
