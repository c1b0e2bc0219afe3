package services

import (
	"context"

	"kbase/internal/domain/models"
)

// SearchService runs boolean keyword search over live articles.
type SearchService interface {
	// Search parses the query, evaluates it against active articles
	// and returns results ordered by weight then recency. With
	// opts.Enhanced the response additionally carries the parser's
	// term classification; the matched set is identical either way.
	Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error)
}
