package dto

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type CreateProjectRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Status           string  `json:"status,omitempty"`
	StartDate        string  `json:"start_date"`
	EstimatedEndDate string  `json:"estimated_end_date"`
	ActualEndDate    *string `json:"actual_end_date,omitempty"`
}

// UpdateProjectRequest replaces every editable field; a missing
// actual_end_date clears it.
type UpdateProjectRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	StartDate        string  `json:"start_date"`
	EstimatedEndDate string  `json:"estimated_end_date"`
	ActualEndDate    *string `json:"actual_end_date"`
}

type ProjectResponse struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Status           string           `json:"status"`
	StatusLabel      string           `json:"status_label"`
	StartDate        string           `json:"start_date"`
	EstimatedEndDate string           `json:"estimated_end_date"`
	ActualEndDate    *string          `json:"actual_end_date,omitempty"`
	OwnerID          uuid.UUID        `json:"owner_id"`
	OwnerName        string           `json:"owner_name"`
	IsOwner          bool             `json:"is_owner"`
	Members          []MemberResponse `json:"members"`
	MemberCount      string           `json:"member_count"`
	TimeStatus       string           `json:"time_status"`
	DaysLeft         int              `json:"days_left"`
	Banner           string           `json:"banner,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	Initials  string    `json:"initials"`
}
