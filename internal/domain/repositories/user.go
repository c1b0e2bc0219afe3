package repositories

import (
	"context"

	"kbase/internal/domain/models"
)

// UserRepository defines data access for the permission mapping of
// externally authenticated users.
type UserRepository interface {
	// GetByUserID retrieves an active user's permissions by external ID
	GetByUserID(ctx context.Context, userID string) (*models.UserPermissions, error)

	// Create inserts a new permission row
	Create(ctx context.Context, user *models.UserPermissions) error

	// TouchLogin updates cached profile fields and last_login
	TouchLogin(ctx context.Context, userID, username, email string) error

	// List returns a page of active users plus the total count
	List(ctx context.Context, offset, limit int) ([]models.UserPermissions, int, error)

	// UpdateRole sets the role and the full capability set
	UpdateRole(ctx context.Context, userID string, role models.Role, caps models.Capabilities) error

	// UpdateCapabilities sets the capability set only
	UpdateCapabilities(ctx context.Context, userID string, caps models.Capabilities) error

	// Deactivate soft-deletes a user
	Deactivate(ctx context.Context, userID string) error
}
