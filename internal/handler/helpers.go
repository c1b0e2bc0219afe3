package handler

import (
	"errors"
	"net/http"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireCapability enforces a capability precondition. It writes the
// 403 response itself and reports whether the request may proceed.
func requireCapability(w http.ResponseWriter, r *http.Request, allowed func(models.Capabilities) bool) bool {
	perms := httputil.GetPermissions(r)
	if perms == nil || !allowed(perms.Capabilities) {
		httputil.RespondError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

// canViewPrivate reports whether the caller may see private articles.
// Unauthenticated listing paths fall back to public-only.
func canViewPrivate(r *http.Request) bool {
	perms := httputil.GetPermissions(r)
	return perms != nil && perms.Capabilities.ViewPrivate
}
