package timeclock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fichajeapp/fichaje-backend/pkg/db"
	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
)

// Repository provides persistence for time records.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Create(ctx context.Context, rec *models.TimeRecord) error {
	return r.client.DB().WithContext(ctx).Create(rec).Error
}

// FindOpenByUser returns the user's most recent open record, or nil when the
// user is clocked out.
func (r *Repository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.TimeRecord, error) {
	var rec models.TimeRecord
	err := r.client.DB().WithContext(ctx).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Order("clock_in DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CloseRecord sets clock_out on a record only if it is still open. Returns the
// number of rows updated so callers can detect a concurrent close.
func (r *Repository) CloseRecord(ctx context.Context, recordID uuid.UUID, clockOut time.Time, isManual bool, notes *string) (int64, error) {
	fields := map[string]any{
		"clock_out":  clockOut,
		"updated_at": time.Now().UTC(),
	}
	if isManual {
		fields["is_manual"] = true
	}
	if notes != nil {
		fields["notes"] = notes
	}
	res := r.client.DB().WithContext(ctx).
		Model(&models.TimeRecord{}).
		Where("id = ? AND clock_out IS NULL", recordID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// ListByUser returns the user's records, newest clock-in first, optionally
// bounded to [from, to).
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeRecord, error) {
	q := r.client.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("clock_in DESC")
	if !from.IsZero() {
		q = q.Where("clock_in >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("clock_in < ?", to)
	}
	var recs []models.TimeRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Repository) FindByID(ctx context.Context, recordID uuid.UUID) (*models.TimeRecord, error) {
	var rec models.TimeRecord
	err := r.client.DB().WithContext(ctx).
		Where("id = ?", recordID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) Update(ctx context.Context, recordID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.client.DB().WithContext(ctx).
		Model(&models.TimeRecord{}).
		Where("id = ?", recordID).
		Updates(fields).Error
}

// Delete removes a record and reports how many rows were affected.
func (r *Repository) Delete(ctx context.Context, recordID uuid.UUID) (int64, error) {
	res := r.client.DB().WithContext(ctx).
		Where("id = ?", recordID).
		Delete(&models.TimeRecord{})
	return res.RowsAffected, res.Error
}
