package timeclock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fichajeapp/fichaje-backend/pkg/db"
	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
)

const recordNotFoundMessage = "record not found"

// AdminService covers record management performed on behalf of any user.
type AdminService interface {
	CreateRecord(ctx context.Context, userID uuid.UUID, input CreateRecordDTO) (*RecordDTO, error)
	UpdateRecord(ctx context.Context, recordID uuid.UUID, input UpdateRecordDTO) (*RecordDTO, error)
	DeleteRecord(ctx context.Context, recordID uuid.UUID) error
}

type adminService struct {
	records recordRepository
}

// AdminServiceParams bundles the dependencies for the admin record service.
type AdminServiceParams struct {
	RecordRepo recordRepository
}

func NewAdminService(params AdminServiceParams) (AdminService, error) {
	if params.RecordRepo == nil {
		return nil, fmt.Errorf("record repository is required")
	}
	return &adminService{records: params.RecordRepo}, nil
}

// CreateRecord inserts a record for the given user. Records created this way
// are always flagged manual.
func (s *adminService) CreateRecord(ctx context.Context, userID uuid.UUID, input CreateRecordDTO) (*RecordDTO, error) {
	if input.ClockIn.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clock_in is required")
	}
	if input.ClockOut != nil && !input.ClockOut.After(input.ClockIn) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, clockOutBeforeInMessage)
	}

	rec := &models.TimeRecord{
		UserID:   userID,
		ClockIn:  input.ClockIn.UTC(),
		IsManual: true,
		Notes:    input.Notes,
	}
	if input.ClockOut != nil {
		out := input.ClockOut.UTC()
		rec.ClockOut = &out
	}
	if err := s.records.Create(ctx, rec); err != nil {
		if db.IsUniqueViolation(err, openRecordConstraintName) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateOpenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create record")
	}
	return fromModel(rec), nil
}

// UpdateRecord applies a partial edit. The merged clock window is re-validated
// before writing so an edit can never leave clock_out at or before clock_in.
func (s *adminService) UpdateRecord(ctx context.Context, recordID uuid.UUID, input UpdateRecordDTO) (*RecordDTO, error) {
	current, err := s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	clockIn := current.ClockIn
	if input.ClockIn != nil {
		clockIn = input.ClockIn.UTC()
	}
	clockOut := current.ClockOut
	if input.ClockOut != nil {
		out := input.ClockOut.UTC()
		clockOut = &out
	}
	if clockOut != nil && !clockOut.After(clockIn) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, clockOutBeforeInMessage)
	}

	fields := map[string]any{"is_manual": true}
	if input.ClockIn != nil {
		fields["clock_in"] = clockIn
	}
	if input.ClockOut != nil {
		fields["clock_out"] = clockOut
	}
	if input.Notes != nil {
		fields["notes"] = input.Notes
	}
	if err := s.records.Update(ctx, recordID, fields); err != nil {
		if db.IsUniqueViolation(err, openRecordConstraintName) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateOpenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update record")
	}
	return s.findRecord(ctx, recordID)
}

func (s *adminService) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	affected, err := s.records.Delete(ctx, recordID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete record")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, recordNotFoundMessage)
	}
	return nil
}

func (s *adminService) findRecord(ctx context.Context, recordID uuid.UUID) (*RecordDTO, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, recordNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find record")
	}
	return fromModel(rec), nil
}
