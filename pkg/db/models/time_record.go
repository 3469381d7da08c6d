package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeRecord is one work interval. A nil ClockOut marks the record as open;
// the schema enforces at most one open record per user via a partial unique
// index (uniq_open_record_per_user).
type TimeRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:idx_time_records_user"`
	ClockIn   time.Time  `gorm:"column:clock_in;not null"`
	ClockOut  *time.Time `gorm:"column:clock_out"`
	IsManual  bool       `gorm:"column:is_manual;not null;default:false"`
	Notes     *string    `gorm:"column:notes;type:text"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralisation.
func (TimeRecord) TableName() string { return "time_records" }

// BeforeCreate assigns an ID for dialects without a server-side uuid default.
func (r *TimeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the record still lacks a clock-out.
func (r TimeRecord) IsOpen() bool { return r.ClockOut == nil }

// Duration returns the worked interval, or zero while the record is open.
func (r TimeRecord) Duration() time.Duration {
	if r.ClockOut == nil {
		return 0
	}
	return r.ClockOut.Sub(r.ClockIn)
}
