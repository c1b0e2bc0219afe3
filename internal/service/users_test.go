package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
)

type fakeUserRepo struct {
	users map[string]*models.UserPermissions
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.UserPermissions)}
}

func (r *fakeUserRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPermissions, error) {
	u, ok := r.users[userID]
	if !ok || !u.IsActive {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.UserPermissions) error {
	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("user %s: %w", user.UserID, domain.ErrConflict)
	}
	c := *user
	r.users[user.UserID] = &c
	return nil
}

func (r *fakeUserRepo) TouchLogin(ctx context.Context, userID, username, email string) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.Username = username
	u.Email = email
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]models.UserPermissions, int, error) {
	var out []models.UserPermissions
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, userID string, role models.Role, caps models.Capabilities) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.Role = role
	u.Capabilities = caps
	return nil
}

func (r *fakeUserRepo) UpdateCapabilities(ctx context.Context, userID string, caps models.Capabilities) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.Capabilities = caps
	return nil
}

func (r *fakeUserRepo) Deactivate(ctx context.Context, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.IsActive = false
	return nil
}

func TestEnsureUserCreatesViewerOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())

	user, err := svc.EnsureUser(context.Background(), "u-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}

	if user.Role != models.RoleViewer {
		t.Errorf("first-sight role = %s, want viewer", user.Role)
	}
	if user.Capabilities != models.DefaultCapabilities(models.RoleViewer) {
		t.Errorf("capabilities = %+v, want viewer defaults", user.Capabilities)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("profile fields not cached: %+v", user)
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "u-1", "alice", "a@example.com")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}

	second, err := svc.EnsureUser(ctx, "u-1", "alice-renamed", "a@example.com")
	if err != nil {
		t.Fatalf("EnsureUser() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second EnsureUser created a new row: %s vs %s", second.ID, first.ID)
	}
	if len(repo.users) != 1 {
		t.Errorf("expected one stored user, got %d", len(repo.users))
	}
}

func TestUpdateRoleResetsCapabilities(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	ctx := context.Background()

	if _, err := svc.EnsureUser(ctx, "u-1", "alice", "a@example.com"); err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}

	if err := svc.UpdateRole(ctx, "u-1", models.RoleEditor); err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}

	user, _ := svc.GetUser(ctx, "u-1")
	if user.Role != models.RoleEditor {
		t.Errorf("role = %s, want editor", user.Role)
	}
	if user.Capabilities != models.DefaultCapabilities(models.RoleEditor) {
		t.Errorf("capabilities not reset to role defaults: %+v", user.Capabilities)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testLogger())

	err := svc.UpdateRole(context.Background(), "u-1", models.Role("superuser"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown role: error = %v, want ErrValidation", err)
	}
}

func TestDeactivateUserHidesFromLookup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	ctx := context.Background()

	if _, err := svc.EnsureUser(ctx, "u-1", "alice", "a@example.com"); err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	if err := svc.DeactivateUser(ctx, "u-1"); err != nil {
		t.Fatalf("DeactivateUser() error = %v", err)
	}

	if _, err := svc.GetUser(ctx, "u-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deactivated user still resolvable: %v", err)
	}
}
