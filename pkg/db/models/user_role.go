package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fichajeapp/fichaje-backend/pkg/enums"
)

// UserRole grants a profile an application role. The admin gate checks for a
// row with RoleAdmin on every privileged request rather than trusting claims.
type UserRole struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_user_role"`
	Role      enums.Role `gorm:"column:role;type:text;not null;uniqueIndex:uniq_user_role"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralisation.
func (UserRole) TableName() string { return "user_roles" }

// BeforeCreate assigns an ID for dialects without a server-side uuid default.
func (u *UserRole) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
