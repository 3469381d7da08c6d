package controllers

import (
	"net/http"
	"time"

	"github.com/fichajeapp/fichaje-backend/api/responses"
	"github.com/fichajeapp/fichaje-backend/api/validators"
	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	"github.com/fichajeapp/fichaje-backend/internal/users"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
	"github.com/fichajeapp/fichaje-backend/pkg/logger"
)

type createRecordRequest struct {
	ClockIn  time.Time  `json:"clock_in" validate:"required"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
	Notes    *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type updateRecordRequest struct {
	ClockIn  *time.Time `json:"clock_in,omitempty"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
	Notes    *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// AdminUserRecordsList returns a user's records, optionally filtered to one
// month via ?month=YYYY-MM.
func AdminUserRecordsList(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		month, err := validators.ParseQueryMonth(r, "month")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListRecords(r.Context(), userID, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// AdminUserRecordsSummary returns a user's monthly worked-hours totals.
func AdminUserRecordsSummary(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AdminUserRecordsExport streams a user's records as an xlsx download. The
// profile is resolved first so the filename carries the username and unknown
// users return 404 instead of an empty workbook.
func AdminUserRecordsExport(svc timeclock.Service, userSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || userSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := userSvc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeRecordsExport(w, r, svc, logg, userID, user.Username)
	}
}

// AdminRecordCreate inserts a record for the given user.
func AdminRecordCreate(svc timeclock.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createRecordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateRecord(r.Context(), userID, timeclock.CreateRecordDTO{
			ClockIn:  body.ClockIn,
			ClockOut: body.ClockOut,
			Notes:    sanitizeNotes(body.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// AdminRecordUpdate applies a partial edit to a record.
func AdminRecordUpdate(svc timeclock.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordId", "record id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateRecordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.ClockIn == nil && body.ClockOut == nil && body.Notes == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update"))
			return
		}

		record, err := svc.UpdateRecord(r.Context(), recordID, timeclock.UpdateRecordDTO{
			ClockIn:  body.ClockIn,
			ClockOut: body.ClockOut,
			Notes:    sanitizeNotes(body.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AdminRecordDelete removes a record.
func AdminRecordDelete(svc timeclock.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordId", "record id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteRecord(r.Context(), recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
