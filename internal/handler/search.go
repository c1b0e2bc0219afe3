package handler

import (
	"log/slog"
	"net/http"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// SearchHandler handles search HTTP requests
type SearchHandler struct {
	searchService services.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// searchResponse is the wire shape of search results
type searchResponse struct {
	Articles  []models.Article      `json:"articles"`
	Count     int                   `json:"count"`
	ElapsedMS float64               `json:"elapsed_ms"`
	Query     *models.QueryMetadata `json:"query,omitempty"`
}

// Search runs a boolean keyword search
// GET /api/search?q=&limit=&enhanced=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	opts := &models.SearchOptions{
		Query:      r.URL.Query().Get("q"),
		Limit:      queryInt(r, "limit", 0),
		PublicOnly: !canViewPrivate(r),
		Enhanced:   r.URL.Query().Get("enhanced") == "true",
	}

	results, err := h.searchService.Search(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, searchResponse{
		Articles:  results.Articles,
		Count:     results.Count,
		ElapsedMS: results.ElapsedMS(),
		Query:     results.Metadata,
	})
}
