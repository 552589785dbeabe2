package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Initials string    `json:"initials"`
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}
