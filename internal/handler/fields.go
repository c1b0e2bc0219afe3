package handler

import (
	"log/slog"
	"net/http"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// FieldHandler handles dynamic field HTTP requests
type FieldHandler struct {
	fieldService services.FieldService
	logger       *slog.Logger
}

// NewFieldHandler creates a new field handler
func NewFieldHandler(fieldService services.FieldService, logger *slog.Logger) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
		logger:       logger,
	}
}

// CreateField creates a field definition
// POST /api/fields
func (h *FieldHandler) CreateField(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	var req services.CreateFieldRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	field, err := h.fieldService.CreateField(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, field)
}

// GetField retrieves a field definition
// GET /api/fields/{id}
func (h *FieldHandler) GetField(w http.ResponseWriter, r *http.Request) {
	field, err := h.fieldService.GetField(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, field)
}

// ListFields lists field definitions
// GET /api/fields?include_inactive=
func (h *FieldHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	fields, err := h.fieldService.ListFields(r.Context(), includeInactive)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"fields": fields,
		"count":  len(fields),
	})
}

// UpdateField patches a field definition
// PATCH /api/fields/{id}
func (h *FieldHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	var req services.UpdateFieldRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	field, err := h.fieldService.UpdateField(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, field)
}

// DeleteField soft-deletes (default) or hard-deletes a field
// DELETE /api/fields/{id}?hard=
func (h *FieldHandler) DeleteField(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	hard := r.URL.Query().Get("hard") == "true"
	if err := h.fieldService.DeleteField(r.Context(), r.PathValue("id"), hard); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListArticleValues lists an article's field values
// GET /api/articles/{id}/fields
func (h *FieldHandler) ListArticleValues(w http.ResponseWriter, r *http.Request) {
	values, err := h.fieldService.ListArticleValues(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"values": values,
		"count":  len(values),
	})
}

// setValuesRequest maps field IDs to new values
type setValuesRequest struct {
	Values map[string]string `json:"values"`
}

// SetArticleValues upserts field values for an article
// PUT /api/articles/{id}/fields
func (h *FieldHandler) SetArticleValues(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	var req setValuesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values, err := h.fieldService.SetArticleValues(r.Context(), r.PathValue("id"), req.Values)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"values": values,
		"count":  len(values),
	})
}

// DeleteArticleValue removes one field value from an article
// DELETE /api/articles/{id}/fields/{fieldId}
func (h *FieldHandler) DeleteArticleValue(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	if err := h.fieldService.DeleteArticleValue(r.Context(), r.PathValue("id"), r.PathValue("fieldId")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
