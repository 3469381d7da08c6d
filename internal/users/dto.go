package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       *string    `json:"email,omitempty"`
	FullName    *string    `json:"full_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsAdmin     bool       `json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new profile.
type CreateUserDTO struct {
	Username     string
	Email        *string
	FullName     *string
	PasswordHash string
	IsActive     *bool
}

// UpdateUserDTO carries optional profile fields for admin edits. Nil fields
// are left untouched.
type UpdateUserDTO struct {
	Email        *string
	FullName     *string
	PasswordHash *string
	IsActive     *bool
}

func FromModel(p *models.Profile, isAdmin bool) *UserDTO {
	if p == nil {
		return nil
	}

	return &UserDTO{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		FullName:    p.FullName,
		IsActive:    p.IsActive,
		IsAdmin:     isAdmin,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.Profile {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.Profile{
		Username:     c.Username,
		Email:        c.Email,
		FullName:     c.FullName,
		PasswordHash: c.PasswordHash,
		IsActive:     isActive,
	}
}
