package models

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles. Each role maps to a default
// capability set; capabilities can then be adjusted per user.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleEditor    Role = "editor"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Validate rejects roles outside the closed set.
func (r Role) Validate() error {
	switch r {
	case RoleViewer, RoleEditor, RoleModerator, RoleAdmin:
		return nil
	default:
		return fmt.Errorf("unknown role: %q (supported: viewer, editor, moderator, admin)", r)
	}
}

// Capabilities is the boolean capability set granted to a user. Handlers
// evaluate these as preconditions; the content core itself does not.
type Capabilities struct {
	ViewPrivate    bool `json:"can_view_private" db:"can_view_private"`
	CreateArticles bool `json:"can_create_articles" db:"can_create_articles"`
	EditArticles   bool `json:"can_edit_articles" db:"can_edit_articles"`
	DeleteArticles bool `json:"can_delete_articles" db:"can_delete_articles"`
	ManageUsers    bool `json:"can_manage_users" db:"can_manage_users"`
	ViewAnalytics  bool `json:"can_view_analytics" db:"can_view_analytics"`
}

// DefaultCapabilities returns the capability set granted by a role.
func DefaultCapabilities(role Role) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{
			ViewPrivate:    true,
			CreateArticles: true,
			EditArticles:   true,
			DeleteArticles: true,
			ManageUsers:    true,
			ViewAnalytics:  true,
		}
	case RoleModerator:
		return Capabilities{
			ViewPrivate:    true,
			CreateArticles: true,
			EditArticles:   true,
			DeleteArticles: true,
			ViewAnalytics:  true,
		}
	case RoleEditor:
		return Capabilities{
			ViewPrivate:    true,
			CreateArticles: true,
			EditArticles:   true,
		}
	default: // viewer
		return Capabilities{ViewPrivate: true}
	}
}

// UserPermissions links an external auth subject to a role and
// capability set. The identity provider itself is an external
// collaborator; only the permission mapping lives here.
type UserPermissions struct {
	ID           string       `json:"id" db:"id"`
	UserID       string       `json:"user_id" db:"user_id"`
	Username     string       `json:"username,omitempty" db:"username"`
	Email        string       `json:"email,omitempty" db:"email"`
	Role         Role         `json:"role" db:"role"`
	IsActive     bool         `json:"is_active" db:"is_active"`
	Capabilities Capabilities `json:"capabilities"`
	LastLogin    *time.Time   `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
