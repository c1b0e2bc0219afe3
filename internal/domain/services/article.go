package services

import (
	"context"

	"kbase/internal/domain/models"
)

// ArticleService handles live-article business logic. Every successful
// create or update also snapshots a published revision; the two writes
// commit together or not at all.
type ArticleService interface {
	// CreateArticle creates an article and its version 1 snapshot
	CreateArticle(ctx context.Context, req *CreateArticleRequest) (*models.Article, error)

	// GetArticle retrieves an active article
	GetArticle(ctx context.Context, id string) (*models.Article, error)

	// ListArticles returns a page of active articles and the total count
	ListArticles(ctx context.Context, opts *models.ListOptions) ([]models.Article, int, error)

	// UpdateArticle patches the live article and snapshots the result
	UpdateArticle(ctx context.Context, id string, req *UpdateArticleRequest) (*models.Article, error)

	// DeleteArticle soft-deletes an article; history is kept
	DeleteArticle(ctx context.Context, id string) error

	// RecordVote applies a helpful/unhelpful vote: counter plus bounded
	// weight adjustment
	RecordVote(ctx context.Context, id string, helpful bool) (*models.Article, error)

	// RecordView bumps the view counter
	RecordView(ctx context.Context, id string) error

	// GetNotes returns the article's free-form notes
	GetNotes(ctx context.Context, id string) (*string, error)

	// SetNotes sets or clears the article's free-form notes
	SetNotes(ctx context.Context, id string, notes *string) error

	// ImportArticles bulk-creates articles, collecting per-item errors
	ImportArticles(ctx context.Context, items []CreateArticleRequest) (*ImportResult, error)

	// WipeAll deletes every article. Destructive, admin-only.
	WipeAll(ctx context.Context) (int64, error)
}

// CreateArticleRequest represents an article creation request.
// WeightScore defaults to 1.0 and IsPublic to true when absent.
type CreateArticleRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
	WeightScore *float64 `json:"weight_score,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
}

// UpdateArticleRequest represents a partial article update. Each field
// is independently present-or-absent; absent fields are left unchanged.
type UpdateArticleRequest struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	WeightScore *float64  `json:"weight_score,omitempty"`
	IsPublic    *bool     `json:"is_public,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (r *UpdateArticleRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Tags == nil &&
		r.WeightScore == nil && r.IsPublic == nil
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
