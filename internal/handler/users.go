package handler

import (
	"log/slog"
	"net/http"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// UserHandler handles user permission HTTP requests
type UserHandler struct {
	userService services.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Me returns the caller's own permission record
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	perms := httputil.GetPermissions(r)
	if perms == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, perms)
}

// ListUsers returns a page of users
// GET /api/users?offset=&limit=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	users, total, err := h.userService.ListUsers(r.Context(), offset, limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// GetUser retrieves a user's permission record
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	user, err := h.userService.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// roleRequest carries the new role
type roleRequest struct {
	Role models.Role `json:"role"`
}

// UpdateRole sets a user's role
// PUT /api/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	var req roleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := r.PathValue("id")
	if err := h.userService.UpdateRole(r.Context(), userID, req.Role); err != nil {
		handleError(w, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// UpdateCapabilities overrides a user's capability flags
// PUT /api/users/{id}/capabilities
func (h *UserHandler) UpdateCapabilities(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	var caps models.Capabilities
	if err := httputil.ParseJSON(w, r, &caps); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := r.PathValue("id")
	if err := h.userService.UpdateCapabilities(r.Context(), userID, caps); err != nil {
		handleError(w, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// DeactivateUser soft-deletes a user
// DELETE /api/users/{id}
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	if err := h.userService.DeactivateUser(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
