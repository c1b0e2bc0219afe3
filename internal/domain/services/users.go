package services

import (
	"context"

	"kbase/internal/domain/models"
)

// UserService resolves and manages the permission mapping for
// externally authenticated users.
type UserService interface {
	// EnsureUser returns the permissions for an authenticated subject,
	// creating a viewer-role row on first sight and refreshing cached
	// profile fields otherwise.
	EnsureUser(ctx context.Context, userID, username, email string) (*models.UserPermissions, error)

	// GetUser retrieves a user's permissions
	GetUser(ctx context.Context, userID string) (*models.UserPermissions, error)

	// ListUsers returns a page of active users and the total count
	ListUsers(ctx context.Context, offset, limit int) ([]models.UserPermissions, int, error)

	// UpdateRole sets a user's role and resets capabilities to the
	// role's defaults
	UpdateRole(ctx context.Context, userID string, role models.Role) error

	// UpdateCapabilities overrides individual capabilities
	UpdateCapabilities(ctx context.Context, userID string, caps models.Capabilities) error

	// DeactivateUser soft-deletes a user
	DeactivateUser(ctx context.Context, userID string) error
}
