package timeclock

import (
	"time"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
)

// ManualKind selects which side of a record a manual entry fills in.
type ManualKind string

const (
	ManualKindIn  ManualKind = "in"
	ManualKindOut ManualKind = "out"
)

func (k ManualKind) IsValid() bool {
	return k == ManualKindIn || k == ManualKindOut
}

// ToggleAction reports which transition a toggle performed.
type ToggleAction string

const (
	ActionClockIn  ToggleAction = "clock_in"
	ActionClockOut ToggleAction = "clock_out"
)

// RecordDTO is the transport shape of a time record.
type RecordDTO struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ClockIn   time.Time  `json:"clock_in"`
	ClockOut  *time.Time `json:"clock_out,omitempty"`
	IsManual  bool       `json:"is_manual"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// StatusDTO describes whether the user is currently clocked in.
type StatusDTO struct {
	ClockedIn  bool       `json:"clocked_in"`
	OpenRecord *RecordDTO `json:"open_record,omitempty"`
}

// ToggleResultDTO is returned by the clock in/out toggle.
type ToggleResultDTO struct {
	Action ToggleAction `json:"action"`
	Record RecordDTO    `json:"record"`
}

// ManualEntryDTO carries a backdated clock-in or clock-out.
type ManualEntryDTO struct {
	Kind      ManualKind
	Timestamp time.Time
	Notes     *string
}

// CreateRecordDTO is used by admins to insert a full record for a user.
type CreateRecordDTO struct {
	ClockIn  time.Time
	ClockOut *time.Time
	Notes    *string
}

// UpdateRecordDTO carries optional record fields for admin edits. Nil fields
// are left untouched; edited records are always flagged manual.
type UpdateRecordDTO struct {
	ClockIn  *time.Time
	ClockOut *time.Time
	Notes    *string
}

func fromModel(rec *models.TimeRecord) *RecordDTO {
	if rec == nil {
		return nil
	}
	return &RecordDTO{
		ID:        rec.ID,
		UserID:    rec.UserID,
		ClockIn:   rec.ClockIn,
		ClockOut:  rec.ClockOut,
		IsManual:  rec.IsManual,
		Notes:     rec.Notes,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func fromModels(recs []models.TimeRecord) []RecordDTO {
	out := make([]RecordDTO, 0, len(recs))
	for i := range recs {
		out = append(out, *fromModel(&recs[i]))
	}
	return out
}
