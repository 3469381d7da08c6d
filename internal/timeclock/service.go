package timeclock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/pkg/db"
	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
)

const (
	clockOutBeforeInMessage  = "clock-out must be after clock-in"
	duplicateOpenMessage     = "an open record already exists"
	noActiveRecordMessage    = "no active record to clock out of"
	openRecordConstraintName = "uniq_open_record_per_user"
)

// Service defines the employee-facing timeclock operations.
type Service interface {
	Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)
	Toggle(ctx context.Context, userID uuid.UUID) (*ToggleResultDTO, error)
	SubmitManual(ctx context.Context, userID uuid.UUID, entry ManualEntryDTO) (*RecordDTO, error)
	ListRecords(ctx context.Context, userID uuid.UUID, month time.Time) ([]RecordDTO, error)
	Summary(ctx context.Context, userID uuid.UUID) ([]MonthlySummary, error)
}

type recordRepository interface {
	Create(ctx context.Context, rec *models.TimeRecord) error
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.TimeRecord, error)
	CloseRecord(ctx context.Context, recordID uuid.UUID, clockOut time.Time, isManual bool, notes *string) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeRecord, error)
	FindByID(ctx context.Context, recordID uuid.UUID) (*models.TimeRecord, error)
	Update(ctx context.Context, recordID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, recordID uuid.UUID) (int64, error)
}

type service struct {
	records recordRepository
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a timeclock service.
type ServiceParams struct {
	RecordRepo recordRepository

	// Now overrides the clock source. Defaults to time.Now.
	Now func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.RecordRepo == nil {
		return nil, fmt.Errorf("record repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{records: params.RecordRepo, now: now}, nil
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	open, err := s.records.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find open record")
	}
	return &StatusDTO{
		ClockedIn:  open != nil,
		OpenRecord: fromModel(open),
	}, nil
}

// Toggle clocks the user out if a record is open, otherwise starts a new one.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID) (*ToggleResultDTO, error) {
	now := s.now().UTC()

	open, err := s.records.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find open record")
	}

	if open != nil {
		if !now.After(open.ClockIn) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, clockOutBeforeInMessage)
		}
		closed, err := s.closeOpenRecord(ctx, open, now, false, nil)
		if err != nil {
			return nil, err
		}
		return &ToggleResultDTO{Action: ActionClockOut, Record: *fromModel(closed)}, nil
	}

	rec := &models.TimeRecord{UserID: userID, ClockIn: now}
	if err := s.records.Create(ctx, rec); err != nil {
		if db.IsUniqueViolation(err, openRecordConstraintName) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateOpenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create record")
	}
	return &ToggleResultDTO{Action: ActionClockIn, Record: *fromModel(rec)}, nil
}

// SubmitManual records a backdated clock-in or closes the active record with a
// backdated clock-out. Manual entries are flagged so edits stay auditable.
func (s *service) SubmitManual(ctx context.Context, userID uuid.UUID, entry ManualEntryDTO) (*RecordDTO, error) {
	if !entry.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manual entry kind must be \"in\" or \"out\"")
	}
	if entry.Timestamp.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "timestamp is required")
	}
	ts := entry.Timestamp.UTC()

	switch entry.Kind {
	case ManualKindIn:
		rec := &models.TimeRecord{
			UserID:   userID,
			ClockIn:  ts,
			IsManual: true,
			Notes:    entry.Notes,
		}
		if err := s.records.Create(ctx, rec); err != nil {
			if db.IsUniqueViolation(err, openRecordConstraintName) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateOpenMessage)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create record")
		}
		return fromModel(rec), nil

	default:
		open, err := s.records.FindOpenByUser(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find open record")
		}
		if open == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, noActiveRecordMessage)
		}
		if !ts.After(open.ClockIn) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, clockOutBeforeInMessage)
		}
		closed, err := s.closeOpenRecord(ctx, open, ts, true, entry.Notes)
		if err != nil {
			return nil, err
		}
		return fromModel(closed), nil
	}
}

func (s *service) ListRecords(ctx context.Context, userID uuid.UUID, month time.Time) ([]RecordDTO, error) {
	from, to := monthBounds(month)
	recs, err := s.records.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list records")
	}
	return fromModels(recs), nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) ([]MonthlySummary, error) {
	recs, err := s.records.ListByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list records")
	}
	return MonthlyTotals(recs), nil
}

// closeOpenRecord issues a conditional update so two racing clock-outs cannot
// both succeed. A zero row count means another request closed it first.
func (s *service) closeOpenRecord(ctx context.Context, open *models.TimeRecord, clockOut time.Time, isManual bool, notes *string) (*models.TimeRecord, error) {
	affected, err := s.records.CloseRecord(ctx, open.ID, clockOut, isManual, notes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close record")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "record already closed")
	}
	refreshed, err := s.records.FindByID(ctx, open.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload record")
	}
	return refreshed, nil
}

// monthBounds converts a month anchor (any instant) into a [from, to) range.
// A zero anchor means no bounds.
func monthBounds(month time.Time) (time.Time, time.Time) {
	if month.IsZero() {
		return time.Time{}, time.Time{}
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
