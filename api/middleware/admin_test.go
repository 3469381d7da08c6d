package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/pkg/enums"
)

type stubRoleChecker struct {
	isAdmin bool
	err     error
	called  bool
}

func (s *stubRoleChecker) HasRole(ctx context.Context, userID uuid.UUID, role enums.Role) (bool, error) {
	s.called = true
	return s.isAdmin, s.err
}

func TestRequireAdminRejectsMissingIdentity(t *testing.T) {
	checker := &stubRoleChecker{isAdmin: true}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if checker.called {
		t.Fatal("role check should not run without identity")
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	checker := &stubRoleChecker{isAdmin: false}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	checker := &stubRoleChecker{isAdmin: true}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !checker.called {
		t.Fatal("expected live role check")
	}
}

func TestRequireAdminSurfacesCheckerErrors(t *testing.T) {
	checker := &stubRoleChecker{err: errors.New("db down")}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
