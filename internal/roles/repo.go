package roles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
	"github.com/fichajeapp/fichaje-backend/pkg/enums"
)

// Repository exposes role-grant persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// HasRole reports whether the user currently holds the role.
func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role enums.Role) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Grant assigns the role to the user. Granting an already-held role is a no-op
// thanks to the (user_id, role) unique index and the conflict clause.
func (r *Repository) Grant(ctx context.Context, userID uuid.UUID, role enums.Role) error {
	grant := models.UserRole{UserID: userID, Role: role}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		FirstOrCreate(&grant).Error
}

// Revoke removes the role grant, if present.
func (r *Repository) Revoke(ctx context.Context, userID uuid.UUID, role enums.Role) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error
}

// AdminUserIDs returns the set of user IDs holding the admin role.
func (r *Repository) AdminUserIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	var grants []models.UserRole
	if err := r.db.WithContext(ctx).
		Where("role = ?", enums.RoleAdmin).
		Find(&grants).Error; err != nil {
		return nil, err
	}
	admins := make(map[uuid.UUID]bool, len(grants))
	for _, grant := range grants {
		admins[grant.UserID] = true
	}
	return admins, nil
}
