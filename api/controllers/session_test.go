package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/fichajeapp/fichaje-backend/pkg/auth"
	"github.com/fichajeapp/fichaje-backend/pkg/auth/session"
	"github.com/fichajeapp/fichaje-backend/pkg/config"
	"github.com/fichajeapp/fichaje-backend/pkg/enums"
)

type stubRotator struct {
	newAccessID  string
	newRefresh   string
	rotateErr    error
	revokeErr    error
	revokedID    string
	rotatedFrom  string
	providedSeen string
}

func (s *stubRotator) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	s.providedSeen = provided
	return s.newAccessID, s.newRefresh, s.rotateErr
}

func (s *stubRotator) Revoke(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return s.revokeErr
}

func sessionTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "fichaje-test",
		ExpirationMinutes: 15,
	}
}

func mintSessionToken(t *testing.T, cfg config.JWTConfig, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "mgarcia",
		Role:     enums.RoleUser,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := sessionTestJWTConfig()
	rotator := &stubRotator{}
	handler := AuthLogout(rotator, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+mintSessionToken(t, cfg, "session-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if rotator.revokedID != "session-1" {
		t.Fatalf("expected revoke of session-1, got %q", rotator.revokedID)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	handler := AuthLogout(&stubRotator{}, sessionTestJWTConfig(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRotates(t *testing.T) {
	cfg := sessionTestJWTConfig()
	rotator := &stubRotator{newAccessID: "session-2", newRefresh: "new-refresh"}
	handler := AuthRefresh(rotator, cfg, nil)

	req := authedRequest(http.MethodPost, "/api/v1/auth/refresh", []byte(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Authorization", "Bearer "+mintSessionToken(t, cfg, "session-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if rotator.rotatedFrom != "session-1" || rotator.providedSeen != "old-refresh" {
		t.Fatalf("expected rotation from session-1 with old-refresh, got %q/%q", rotator.rotatedFrom, rotator.providedSeen)
	}

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("expected new refresh token, got %q", envelope.Data.RefreshToken)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatal("expected a new access token")
	}

	// The reissued token must carry the rotated session id.
	claims, err := pkgAuth.ParseAccessToken(cfg, envelope.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse reissued token: %v", err)
	}
	if claims.ID != "session-2" {
		t.Fatalf("expected jti session-2, got %q", claims.ID)
	}
	if resp.Header().Get("X-FJ-Token") != envelope.Data.AccessToken {
		t.Fatal("expected x-fj-token header to match access token")
	}
}

func TestAuthRefreshInvalidToken(t *testing.T) {
	cfg := sessionTestJWTConfig()
	rotator := &stubRotator{rotateErr: session.ErrInvalidRefreshToken}
	handler := AuthRefresh(rotator, cfg, nil)

	req := authedRequest(http.MethodPost, "/api/v1/auth/refresh", []byte(`{"refresh_token":"stale"}`))
	req.Header.Set("Authorization", "Bearer "+mintSessionToken(t, cfg, "session-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
