package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// RevisionHandler handles revision HTTP requests
type RevisionHandler struct {
	revisionService services.RevisionService
	logger          *slog.Logger
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(revisionService services.RevisionService, logger *slog.Logger) *RevisionHandler {
	return &RevisionHandler{
		revisionService: revisionService,
		logger:          logger,
	}
}

// ListVersions returns an article's revision history, newest first
// GET /api/articles/{id}/versions
func (h *RevisionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	revisions, err := h.revisionService.ListVersions(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"versions": revisions,
		"count":    len(revisions),
	})
}

// CreateDraft snapshots the live article as a new draft
// POST /api/articles/{id}/versions
func (h *RevisionHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	rev, err := h.revisionService.CreateDraft(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rev)
}

// UpdateDraft patches a draft's snapshot fields
// PATCH /api/articles/{id}/versions/{version}
func (h *RevisionHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	version, ok := pathVersion(w, r)
	if !ok {
		return
	}

	var req services.UpdateDraftRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rev, err := h.revisionService.UpdateDraft(r.Context(), r.PathValue("id"), version, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rev)
}

// PublishDraft applies a draft to the live article
// POST /api/articles/{id}/versions/{version}/publish
func (h *RevisionHandler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	version, ok := pathVersion(w, r)
	if !ok {
		return
	}

	article, err := h.revisionService.PublishDraft(r.Context(), r.PathValue("id"), version)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// Rollback restores a published revision onto the live article
// POST /api/articles/{id}/versions/{version}/rollback
func (h *RevisionHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	version, ok := pathVersion(w, r)
	if !ok {
		return
	}

	article, err := h.revisionService.Rollback(r.Context(), r.PathValue("id"), version)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// pathVersion parses the {version} path segment, writing the 400 itself
func pathVersion(w http.ResponseWriter, r *http.Request) (int, bool) {
	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil || version < 1 {
		httputil.RespondError(w, http.StatusBadRequest, "version must be a positive integer")
		return 0, false
	}
	return version, true
}
