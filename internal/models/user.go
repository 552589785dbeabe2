package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account holds sign-in credentials. Its ID is the identity key of the
// matching User profile.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Snapshot returns the embedded team copy of the user with the given role.
func (u *User) Snapshot(role string) TeamMember {
	return TeamMember{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  role,
	}
}
