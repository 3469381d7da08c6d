package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
)

type stubAdminRecordService struct {
	record *timeclock.RecordDTO
	err    error

	createdFor uuid.UUID
	updatedID  uuid.UUID
	deletedID  uuid.UUID
}

func (s *stubAdminRecordService) CreateRecord(ctx context.Context, userID uuid.UUID, input timeclock.CreateRecordDTO) (*timeclock.RecordDTO, error) {
	s.createdFor = userID
	return s.record, s.err
}

func (s *stubAdminRecordService) UpdateRecord(ctx context.Context, recordID uuid.UUID, input timeclock.UpdateRecordDTO) (*timeclock.RecordDTO, error) {
	s.updatedID = recordID
	return s.record, s.err
}

func (s *stubAdminRecordService) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	s.deletedID = recordID
	return s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAdminRecordCreate(t *testing.T) {
	userID := uuid.New()
	svc := &stubAdminRecordService{record: &timeclock.RecordDTO{ID: uuid.New(), UserID: userID, IsManual: true}}
	handler := AdminRecordCreate(svc, nil)

	body := []byte(`{"clock_in":"2026-03-02T09:00:00Z","clock_out":"2026-03-02T17:00:00Z"}`)
	req := authedRequest(http.MethodPost, "/api/admin/v1/users/"+userID.String()+"/records", body)
	req = withURLParam(req, "userId", userID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.createdFor != userID {
		t.Fatalf("expected create for %s, got %s", userID, svc.createdFor)
	}
}

func TestAdminRecordCreateBadUserID(t *testing.T) {
	handler := AdminRecordCreate(&stubAdminRecordService{}, nil)

	body := []byte(`{"clock_in":"2026-03-02T09:00:00Z"}`)
	req := authedRequest(http.MethodPost, "/api/admin/v1/users/nope/records", body)
	req = withURLParam(req, "userId", "nope")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminRecordUpdate(t *testing.T) {
	recordID := uuid.New()
	svc := &stubAdminRecordService{record: &timeclock.RecordDTO{ID: recordID, IsManual: true}}
	handler := AdminRecordUpdate(svc, nil)

	body := []byte(`{"clock_out":"2026-03-02T18:00:00Z"}`)
	req := authedRequest(http.MethodPatch, "/api/admin/v1/records/"+recordID.String(), body)
	req = withURLParam(req, "recordId", recordID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.updatedID != recordID {
		t.Fatalf("expected update of %s, got %s", recordID, svc.updatedID)
	}
}

func TestAdminRecordUpdateEmptyBody(t *testing.T) {
	recordID := uuid.New()
	handler := AdminRecordUpdate(&stubAdminRecordService{}, nil)

	req := authedRequest(http.MethodPatch, "/api/admin/v1/records/"+recordID.String(), []byte(`{}`))
	req = withURLParam(req, "recordId", recordID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminRecordDeleteNotFound(t *testing.T) {
	recordID := uuid.New()
	svc := &stubAdminRecordService{err: pkgerrors.New(pkgerrors.CodeNotFound, "record not found")}
	handler := AdminRecordDelete(svc, nil)

	req := authedRequest(http.MethodDelete, "/api/admin/v1/records/"+recordID.String(), nil)
	req = withURLParam(req, "recordId", recordID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminUserRecordsListForwardsMonth(t *testing.T) {
	userID := uuid.New()
	svc := &stubTimeclockService{}
	handler := AdminUserRecordsList(svc, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/users/"+userID.String()+"/records?month=2026-01", nil)
	req = withURLParam(req, "userId", userID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !svc.listMonth.Equal(want) {
		t.Fatalf("expected month %s forwarded, got %s", want, svc.listMonth)
	}
}

func TestAdminUserRecordsExportUsesUsername(t *testing.T) {
	userID := uuid.New()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := &stubTimeclockService{records: []timeclock.RecordDTO{{ID: uuid.New(), ClockIn: in}}}
	userSvc := &stubUserService{me: userDTO(userID, "mgarcia", false)}
	handler := AdminUserRecordsExport(svc, userSvc, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/users/"+userID.String()+"/records/export", nil)
	req = withURLParam(req, "userId", userID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if disposition := resp.Header().Get("Content-Disposition"); !strings.Contains(disposition, "registros_mgarcia_") {
		t.Fatalf("expected username in filename, got %q", disposition)
	}
}

func TestAdminUserRecordsExportUnknownUser(t *testing.T) {
	userID := uuid.New()
	userSvc := &stubUserService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := AdminUserRecordsExport(&stubTimeclockService{}, userSvc, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/users/"+userID.String()+"/records/export", nil)
	req = withURLParam(req, "userId", userID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
