package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"kbase/internal/config"
	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
	"kbase/internal/domain/services"
)

// nonTermChars strips everything except word characters and hyphens
// from a term after its prefix has been consumed.
var nonTermChars = regexp.MustCompile(`[^\w\-]+`)

// ParseQuery splits a raw query string into required, excluded and
// optional term sets. Tokens are whitespace-separated; a leading '+'
// marks a term required, a leading '-' marks it excluded, anything else
// is optional. Terms are lowercased and stripped of punctuation; tokens
// that strip to nothing are dropped.
func ParseQuery(raw string) *models.ParsedQuery {
	q := &models.ParsedQuery{}

	for _, token := range strings.Fields(raw) {
		var bucket *[]string
		switch {
		case strings.HasPrefix(token, "+"):
			bucket = &q.Required
			token = token[1:]
		case strings.HasPrefix(token, "-"):
			bucket = &q.Excluded
			token = token[1:]
		default:
			bucket = &q.Optional
		}

		term := strings.ToLower(nonTermChars.ReplaceAllString(token, ""))
		if term == "" {
			continue
		}
		*bucket = append(*bucket, term)
	}

	return q
}

// searchService implements the SearchService interface
type searchService struct {
	articleRepo repositories.ArticleRepository
	logger      *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(articleRepo repositories.ArticleRepository, logger *slog.Logger) services.SearchService {
	return &searchService{
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// Search parses the query and evaluates it against active articles.
// An empty or fully-stripped query skips term filtering and returns the
// top articles by weight.
func (s *searchService) Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	if opts == nil {
		opts = &models.SearchOptions{}
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(opts.Query) > config.MaxSearchQueryLength {
		return nil, fmt.Errorf("%w: query cannot exceed %d characters", domain.ErrValidation, config.MaxSearchQueryLength)
	}

	start := time.Now()
	query := ParseQuery(opts.Query)

	var (
		articles []models.Article
		err      error
	)
	if query.Empty() {
		articles, err = s.topByWeight(ctx, opts)
	} else {
		articles, err = s.articleRepo.Search(ctx, query, opts)
	}
	if err != nil {
		return nil, err
	}

	results := &models.SearchResults{
		Articles: articles,
		Count:    len(articles),
		Elapsed:  time.Since(start),
	}
	if opts.Enhanced {
		results.Metadata = &models.QueryMetadata{
			Required:  termsOrEmpty(query.Required),
			Excluded:  termsOrEmpty(query.Excluded),
			Optional:  termsOrEmpty(query.Optional),
			Effective: !query.Empty(),
		}
	}

	s.logger.Info("search executed",
		"query", opts.Query,
		"results", results.Count,
		"elapsed_ms", results.ElapsedMS(),
	)

	return results, nil
}

// topByWeight is the no-query fallback: a weight-ordered page of
// articles with the same visibility filters as search.
func (s *searchService) topByWeight(ctx context.Context, opts *models.SearchOptions) ([]models.Article, error) {
	listOpts := &models.ListOptions{
		Limit:      opts.Limit,
		SortBy:     models.SortByWeightScore,
		Order:      models.SortDesc,
		PublicOnly: opts.PublicOnly,
	}
	articles, _, err := s.articleRepo.List(ctx, listOpts)
	return articles, err
}

func termsOrEmpty(terms []string) []string {
	if terms == nil {
		return []string{}
	}
	return terms
}
