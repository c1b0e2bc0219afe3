package middleware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/httputil"
)

type stubVerifier struct {
	userID string
}

func (v *stubVerifier) VerifyToken(token string) (*models.AuthClaims, error) {
	if token != "valid" {
		return nil, fmt.Errorf("bad token: %w", domain.ErrUnauthorized)
	}
	return &models.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: v.userID},
		Username:         "alice",
		Email:            "alice@example.com",
	}, nil
}

func (v *stubVerifier) Close() error { return nil }

type stubUserService struct {
	perms *models.UserPermissions
}

func (s *stubUserService) EnsureUser(ctx context.Context, userID, username, email string) (*models.UserPermissions, error) {
	return s.perms, nil
}

func (s *stubUserService) GetUser(ctx context.Context, userID string) (*models.UserPermissions, error) {
	return s.perms, nil
}

func (s *stubUserService) ListUsers(ctx context.Context, offset, limit int) ([]models.UserPermissions, int, error) {
	return nil, 0, nil
}

func (s *stubUserService) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	return nil
}

func (s *stubUserService) UpdateCapabilities(ctx context.Context, userID string, caps models.Capabilities) error {
	return nil
}

func (s *stubUserService) DeactivateUser(ctx context.Context, userID string) error {
	return nil
}

func authChain(perms *models.UserPermissions, next http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Auth(&stubVerifier{userID: "u-1"}, &stubUserService{perms: perms}, logger)(next)
}

func viewerPerms() *models.UserPermissions {
	return &models.UserPermissions{
		UserID:       "u-1",
		Role:         models.RoleViewer,
		IsActive:     true,
		Capabilities: models.DefaultCapabilities(models.RoleViewer),
	}
}

func TestAuthAllowsAnonymousReads(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "article list", method: http.MethodGet, path: "/api/articles"},
		{name: "single article", method: http.MethodGet, path: "/api/articles/abc-123"},
		{name: "search", method: http.MethodGet, path: "/api/search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawPerms *models.UserPermissions
			reached := false
			chain := authChain(viewerPerms(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				sawPerms = httputil.GetPermissions(r)
			}))

			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if !reached {
				t.Fatalf("anonymous %s %s blocked: status %d", tt.method, tt.path, rec.Code)
			}
			if sawPerms != nil {
				t.Errorf("anonymous request must carry no permissions, got %+v", sawPerms)
			}
		})
	}
}

func TestAuthRequiresTokenForWritesAndNestedReads(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "article create", method: http.MethodPost, path: "/api/articles"},
		{name: "article delete", method: http.MethodDelete, path: "/api/articles/abc-123"},
		{name: "version history", method: http.MethodGet, path: "/api/articles/abc-123/versions"},
		{name: "notes", method: http.MethodGet, path: "/api/articles/abc-123/notes"},
		{name: "user listing", method: http.MethodGet, path: "/api/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := authChain(viewerPerms(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached without a token")
			}))

			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s without token: status = %d, want 401", tt.method, tt.path, rec.Code)
			}
		})
	}
}

func TestAuthResolvesPermissionsForValidToken(t *testing.T) {
	var sawPerms *models.UserPermissions
	chain := authChain(viewerPerms(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPerms = httputil.GetPermissions(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/articles/abc-123/versions", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sawPerms == nil || sawPerms.UserID != "u-1" {
		t.Errorf("permissions not on context: %+v", sawPerms)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	chain := authChain(viewerPerms(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with an invalid token")
	}))

	// Invalid credentials are rejected even on anonymous-readable paths
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsDeactivatedUser(t *testing.T) {
	perms := viewerPerms()
	perms.IsActive = false
	chain := authChain(perms, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached for a deactivated user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
