package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// ArticleHandler handles article HTTP requests
type ArticleHandler struct {
	articleService services.ArticleService
	logger         *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService services.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// CreateArticle creates a new article
// POST /api/articles
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.CreateArticles }) {
		return
	}

	var req services.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.articleService.CreateArticle(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// GetArticle retrieves an article by ID
// GET /api/articles/{id}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !article.IsPublic && !canViewPrivate(r) {
		httputil.RespondError(w, http.StatusForbidden, "article is private")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// listArticlesResponse is the paginated listing envelope
type listArticlesResponse struct {
	Articles []models.Article `json:"articles"`
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
}

// ListArticles returns a page of articles
// GET /api/articles?offset=&limit=&sort_by=&order=
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	opts := &models.ListOptions{
		Offset:     queryInt(r, "offset", 0),
		Limit:      queryInt(r, "limit", 0),
		SortBy:     models.SortField(r.URL.Query().Get("sort_by")),
		Order:      models.SortOrder(r.URL.Query().Get("order")),
		PublicOnly: !canViewPrivate(r),
	}

	articles, total, err := h.articleService.ListArticles(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listArticlesResponse{
		Articles: articles,
		Total:    total,
		Offset:   opts.Offset,
		Limit:    opts.Limit,
	})
}

// UpdateArticle patches an article
// PATCH /api/articles/{id}
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	id := r.PathValue("id")

	var req services.UpdateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.articleService.UpdateArticle(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle soft-deletes an article
// DELETE /api/articles/{id}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.DeleteArticles }) {
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// voteRequest selects the vote direction
type voteRequest struct {
	Helpful bool `json:"helpful"`
}

// VoteArticle records a helpful/unhelpful vote
// POST /api/articles/{id}/vote
func (h *ArticleHandler) VoteArticle(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.articleService.RecordVote(r.Context(), r.PathValue("id"), req.Helpful)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// ViewArticle bumps the view counter
// POST /api/articles/{id}/view
func (h *ArticleHandler) ViewArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.articleService.RecordView(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetNotes returns the article's free-form notes
// GET /api/articles/{id}/notes
func (h *ArticleHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	notes, err := h.articleService.GetNotes(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]*string{"notes": notes})
}

// notesRequest carries tri-state notes: absent keeps, null clears
type notesRequest struct {
	Notes httputil.OptionalString `json:"notes"`
}

// SetNotes sets or clears the article's free-form notes
// PUT /api/articles/{id}/notes
func (h *ArticleHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	if !requireCapability(w, r, func(c models.Capabilities) bool { return c.EditArticles }) {
		return
	}

	var req notesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Notes.Present {
		httputil.RespondError(w, http.StatusBadRequest, "notes field is required (use null to clear)")
		return
	}

	if err := h.articleService.SetNotes(r.Context(), r.PathValue("id"), req.Notes.Value); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an integer query parameter, falling back on absence
// or garbage
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
