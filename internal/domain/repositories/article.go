package repositories

import (
	"context"

	"kbase/internal/domain/models"
)

// ArticleRepository defines data access operations for live articles.
// The operations are not versioning-aware; services take snapshots.
type ArticleRepository interface {
	// Create inserts a new article row
	Create(ctx context.Context, article *models.Article) error

	// GetByID retrieves an active article by ID
	GetByID(ctx context.Context, id string) (*models.Article, error)

	// List returns a page of active articles plus the total count
	List(ctx context.Context, opts *models.ListOptions) ([]models.Article, int, error)

	// Update writes the article's editable fields and bumps updated_at
	Update(ctx context.Context, article *models.Article) error

	// SetNotes sets or clears the free-form notes of an article
	SetNotes(ctx context.Context, id string, notes *string) error

	// SoftDelete deactivates an article; revision history is kept
	SoftDelete(ctx context.Context, id string) error

	// IncrementViewCount bumps the view counter
	IncrementViewCount(ctx context.Context, id string) error

	// ApplyVote increments the vote counter and adjusts the weight
	// score by the fixed step, clamped to the allowed range. Returns
	// the updated article.
	ApplyVote(ctx context.Context, id string, helpful bool) (*models.Article, error)

	// Search evaluates parsed query terms against active articles and
	// their taxonomy label names, ordered by weight then recency.
	// An empty query must be handled by the caller.
	Search(ctx context.Context, query *models.ParsedQuery, opts *models.SearchOptions) ([]models.Article, error)

	// DeleteAll removes every article row. Admin-only, destructive.
	DeleteAll(ctx context.Context) (int64, error)
}
