package handler

import (
	"log/slog"
	"net/http"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// TaxonomyHandler handles platform/product label HTTP requests. The
// {kind} path segment selects the taxonomy dimension.
type TaxonomyHandler struct {
	taxonomyService services.TaxonomyService
	logger          *slog.Logger
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(taxonomyService services.TaxonomyService, logger *slog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
		logger:          logger,
	}
}

func pathKind(r *http.Request) models.LabelKind {
	// Plural path segments map onto the singular kind values
	switch r.PathValue("kind") {
	case "platforms":
		return models.LabelPlatform
	case "products":
		return models.LabelProduct
	default:
		return models.LabelKind(r.PathValue("kind"))
	}
}

// CreateLabel creates a label
// POST /api/{kind}
func (h *TaxonomyHandler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	var req services.CreateLabelRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	label, err := h.taxonomyService.CreateLabel(r.Context(), pathKind(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, label)
}

// GetLabel retrieves a label
// GET /api/{kind}/{id}
func (h *TaxonomyHandler) GetLabel(w http.ResponseWriter, r *http.Request) {
	label, err := h.taxonomyService.GetLabel(r.Context(), pathKind(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, label)
}

// ListLabels lists labels of one kind
// GET /api/{kind}?include_inactive=
func (h *TaxonomyHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	labels, err := h.taxonomyService.ListLabels(r.Context(), pathKind(r), includeInactive)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"count":  len(labels),
	})
}

// UpdateLabel patches a label
// PATCH /api/{kind}/{id}
func (h *TaxonomyHandler) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	var req services.UpdateLabelRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	label, err := h.taxonomyService.UpdateLabel(r.Context(), pathKind(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, label)
}

// DeleteLabel soft-deletes (default) or hard-deletes a label
// DELETE /api/{kind}/{id}?hard=
func (h *TaxonomyHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.DeleteArticles }) {
		return
	}

	hard := r.URL.Query().Get("hard") == "true"
	if err := h.taxonomyService.DeleteLabel(r.Context(), pathKind(r), r.PathValue("id"), hard); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListArticleLabels lists an article's labels of one kind
// GET /api/articles/{id}/{kind}
func (h *TaxonomyHandler) ListArticleLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.taxonomyService.ListArticleLabels(r.Context(), pathKind(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"count":  len(labels),
	})
}

// setLabelsRequest carries the replacement label ID set
type setLabelsRequest struct {
	LabelIDs []string `json:"label_ids"`
}

// SetArticleLabels replaces an article's label set of one kind
// PUT /api/articles/{id}/{kind}
func (h *TaxonomyHandler) SetArticleLabels(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	var req setLabelsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	labels, err := h.taxonomyService.SetArticleLabels(r.Context(), pathKind(r), r.PathValue("id"), req.LabelIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"count":  len(labels),
	})
}
