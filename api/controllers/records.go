package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/api/middleware"
	"github.com/fichajeapp/fichaje-backend/api/responses"
	"github.com/fichajeapp/fichaje-backend/api/validators"
	"github.com/fichajeapp/fichaje-backend/internal/export"
	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
	"github.com/fichajeapp/fichaje-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordsList returns the caller's records, optionally filtered to one month
// via ?month=YYYY-MM.
func RecordsList(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := currentUserID(r)
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

// RecordsSummary returns the caller's monthly worked-hours totals.
func RecordsSummary(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := currentUserID(r)
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

// RecordsExport streams the caller's records as an xlsx download.
func RecordsExport(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		username := middleware.UsernameFromContext(r.Context())
		writeRecordsExport(w, r, svc, logg, userID, username)
	}
}

// writeRecordsExport is shared between the self-service and admin export
// endpoints. The workbook is rendered into memory first so a late failure
// cannot corrupt a partially written download.
func writeRecordsExport(w http.ResponseWriter, r *http.Request, svc timeclock.Service, logg *logger.Logger, userID uuid.UUID, username string) {
	records, err := svc.ListRecords(r.Context(), userID, time.Time{})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRecords(&buf, records); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	name := export.FileName(username, time.Now().UTC())
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil && logg != nil {
		logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "export.write_interrupted")
	}
}
