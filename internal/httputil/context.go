package httputil

import (
	"context"
	"net/http"

	"kbase/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey      contextKey = "userID"
	permissionsKey contextKey = "permissions"
)

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithPermissions adds the resolved permission record to the request context
func WithPermissions(r *http.Request, perms *models.UserPermissions) *http.Request {
	ctx := context.WithValue(r.Context(), permissionsKey, perms)
	return r.WithContext(ctx)
}

// GetPermissions retrieves the permission record from context, nil if absent
func GetPermissions(r *http.Request) *models.UserPermissions {
	perms, _ := r.Context().Value(permissionsKey).(*models.UserPermissions)
	return perms
}
