package handler

import (
	"log/slog"
	"net/http"
	"time"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// AdminHandler handles bulk import and destructive maintenance requests
type AdminHandler struct {
	articleService services.ArticleService
	logger         *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(articleService services.ArticleService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// importRequest carries the articles to bulk-create
type importRequest struct {
	Articles []services.CreateArticleRequest `json:"articles"`
}

// ImportArticles bulk-creates articles from a JSON payload
// POST /api/admin/import
func (h *AdminHandler) ImportArticles(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	var req importRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.articleService.ImportArticles(r.Context(), req.Articles)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// WipeArticles deletes every article. Requires confirm=true.
// POST /api/admin/wipe?confirm=true
func (h *AdminHandler) WipeArticles(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.ManageUsers }) {
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		httputil.RespondError(w, http.StatusBadRequest, "wipe requires confirm=true")
		return
	}

	count, err := h.articleService.WipeAll(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

// HealthCheck is a simple health check endpoint
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
