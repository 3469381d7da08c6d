package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/fichajeapp/fichaje-backend/pkg/auth"
	"github.com/fichajeapp/fichaje-backend/pkg/config"
	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
	"github.com/fichajeapp/fichaje-backend/pkg/enums"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
	"github.com/fichajeapp/fichaje-backend/pkg/security"
)

type stubUserRepo struct {
	profiles  map[string]*models.Profile
	lastLogin map[uuid.UUID]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		profiles:  map[string]*models.Profile{},
		lastLogin: map[uuid.UUID]time.Time{},
	}
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	if profile, ok := s.profiles[username]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubRoleRepo struct {
	admins map[uuid.UUID]bool
}

func (s *stubRoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role enums.Role) (bool, error) {
	if role != enums.RoleAdmin {
		return false, nil
	}
	return s.admins[userID], nil
}

type stubSessionManager struct {
	generated []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "fichaje", ExpirationMinutes: 30}
}

func seedProfile(t *testing.T, repo *stubUserRepo, username, password string, active bool) *models.Profile {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	profile := &models.Profile{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		IsActive:     active,
	}
	repo.profiles[username] = profile
	return profile
}

func newTestService(t *testing.T, userRepo *stubUserRepo, roleRepo *stubRoleRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	userRepo := newStubUserRepo()
	profile := seedProfile(t, userRepo, "mgarcia", "secret123", true)
	roleRepo := &stubRoleRepo{admins: map[uuid.UUID]bool{}}
	sessions := &stubSessionManager{}
	svc := newTestService(t, userRepo, roleRepo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "MGarcia", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected tokens")
	}
	if resp.User == nil || resp.User.ID != profile.ID {
		t.Fatal("expected user payload")
	}
	if resp.User.IsAdmin {
		t.Fatal("plain user must not be admin")
	}
	if _, ok := userRepo.lastLogin[profile.ID]; !ok {
		t.Fatal("expected last login update")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.RoleUser {
		t.Fatalf("expected role user, got %s", claims.Role)
	}
	if len(sessions.generated) != 1 || claims.ID != sessions.generated[0] {
		t.Fatal("jti must match the stored session access id")
	}
}

func TestLoginAdminRoleInToken(t *testing.T) {
	userRepo := newStubUserRepo()
	profile := seedProfile(t, userRepo, "admin", "secret123", true)
	roleRepo := &stubRoleRepo{admins: map[uuid.UUID]bool{profile.ID: true}}
	svc := newTestService(t, userRepo, roleRepo, &stubSessionManager{})

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected role admin, got %s", claims.Role)
	}
	if !resp.User.IsAdmin {
		t.Fatal("expected is_admin in payload")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	userRepo := newStubUserRepo()
	seedProfile(t, userRepo, "mgarcia", "secret123", true)
	svc := newTestService(t, userRepo, &stubRoleRepo{admins: map[uuid.UUID]bool{}}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "mgarcia", Password: "wrong"})
	assertUnauthorized(t, err)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubRoleRepo{admins: map[uuid.UUID]bool{}}, &stubSessionManager{})
	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assertUnauthorized(t, err)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	userRepo := newStubUserRepo()
	seedProfile(t, userRepo, "mgarcia", "secret123", false)
	svc := newTestService(t, userRepo, &stubRoleRepo{admins: map[uuid.UUID]bool{}}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "mgarcia", Password: "secret123"})
	assertUnauthorized(t, err)
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	userRepo := newStubUserRepo()
	seedProfile(t, userRepo, "mgarcia", "secret123", true)
	svc := newTestService(t, userRepo, &stubRoleRepo{admins: map[uuid.UUID]bool{}}, &stubSessionManager{})

	_, err := svc.AdminLogin(context.Background(), LoginRequest{Username: "mgarcia", Password: "secret123"})
	assertUnauthorized(t, err)
}

func TestAdminLoginSuccess(t *testing.T) {
	userRepo := newStubUserRepo()
	profile := seedProfile(t, userRepo, "admin", "secret123", true)
	roleRepo := &stubRoleRepo{admins: map[uuid.UUID]bool{profile.ID: true}}
	svc := newTestService(t, userRepo, roleRepo, &stubSessionManager{})

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Username: "admin", Password: "secret123"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !resp.User.IsAdmin {
		t.Fatal("expected admin user payload")
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
