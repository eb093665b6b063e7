package team

import (
	"errors"
	"strings"
	"time"
)

// Member represents a clinic team member shown on the website.
type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewMember is the payload for creating a team member.
type NewMember struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Bio          string `json:"bio"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateMember carries partial changes to a team member.
type UpdateMember struct {
	Name         *string `json:"name,omitempty"`
	Role         *string `json:"role,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

var (
	// ErrNotFound is returned when a team member does not exist.
	ErrNotFound = errors.New("team member not found")

	// ErrInvalidMember is returned when a create payload fails validation.
	ErrInvalidMember = errors.New("name and role are required")
)

// Validate checks the create payload.
func (m *NewMember) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Role = strings.TrimSpace(m.Role)
	if m.Name == "" || m.Role == "" {
		return ErrInvalidMember
	}
	return nil
}
