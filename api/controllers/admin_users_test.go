package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/internal/users"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
)

type stubUserService struct {
	me     *users.UserDTO
	list   []users.UserDTO
	detail *users.UserDetailDTO
	err    error

	createReq *users.CreateUserRequest
}

func (s *stubUserService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.me, s.err
}

func (s *stubUserService) List(ctx context.Context) ([]users.UserDTO, error) {
	return s.list, s.err
}

func (s *stubUserService) Create(ctx context.Context, req users.CreateUserRequest) (*users.UserDTO, error) {
	s.createReq = &req
	return s.me, s.err
}

func (s *stubUserService) Detail(ctx context.Context, userID uuid.UUID) (*users.UserDetailDTO, error) {
	return s.detail, s.err
}

func userDTO(id uuid.UUID, username string, isAdmin bool) *users.UserDTO {
	return &users.UserDTO{ID: id, Username: username, IsActive: true, IsAdmin: isAdmin}
}

func TestAdminUsersList(t *testing.T) {
	svc := &stubUserService{list: []users.UserDTO{
		*userDTO(uuid.New(), "boss", true),
		*userDTO(uuid.New(), "worker", false),
	}}
	handler := AdminUsersList(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/admin/v1/users", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || !envelope.Data[0].IsAdmin {
		t.Fatalf("unexpected user list: %+v", envelope.Data)
	}
}

func TestAdminUsersCreate(t *testing.T) {
	svc := &stubUserService{me: userDTO(uuid.New(), "worker", false)}
	handler := AdminUsersCreate(svc, nil)

	body := []byte(`{"username":"worker","password":"secret123","is_admin":false}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/admin/v1/users", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.createReq == nil || svc.createReq.Username != "worker" {
		t.Fatalf("expected create request forwarded, got %+v", svc.createReq)
	}
}

func TestAdminUsersCreateMissingPassword(t *testing.T) {
	handler := AdminUsersCreate(&stubUserService{}, nil)

	body := []byte(`{"username":"worker"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/admin/v1/users", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUsersCreateConflict(t *testing.T) {
	svc := &stubUserService{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}
	handler := AdminUsersCreate(svc, nil)

	body := []byte(`{"username":"worker","password":"secret123"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/admin/v1/users", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAdminUserDetail(t *testing.T) {
	userID := uuid.New()
	svc := &stubUserService{detail: &users.UserDetailDTO{User: *userDTO(userID, "worker", false)}}
	handler := AdminUserDetail(svc, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/users/"+userID.String(), nil)
	req = withURLParam(req, "userId", userID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data users.UserDetailDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User.ID != userID {
		t.Fatalf("expected user %s, got %s", userID, envelope.Data.User.ID)
	}
}

func TestAdminUserDetailBadID(t *testing.T) {
	handler := AdminUserDetail(&stubUserService{}, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/users/nope", nil)
	req = withURLParam(req, "userId", "nope")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
