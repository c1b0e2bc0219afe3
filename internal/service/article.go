package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"kbase/internal/config"
	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
	"kbase/internal/domain/services"
)

// articleService implements the ArticleService interface
type articleService struct {
	articleRepo repositories.ArticleRepository
	revRepo     repositories.RevisionRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(
	articleRepo repositories.ArticleRepository,
	revRepo repositories.RevisionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		revRepo:     revRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateArticle creates an article and its version 1 published snapshot
// in one transaction.
func (s *articleService) CreateArticle(ctx context.Context, req *services.CreateArticleRequest) (*models.Article, error) {
	if err := validateCreateArticle(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	article := &models.Article{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Content:     req.Content,
		Tags:        normalizeTags(req.Tags),
		WeightScore: models.DefaultWeightScore,
		IsActive:    true,
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.WeightScore != nil {
		article.WeightScore = *req.WeightScore
	}
	if req.IsPublic != nil {
		article.IsPublic = *req.IsPublic
	}

	err := withSnapshotRetry(ctx, s.txManager, func(txCtx context.Context) error {
		if err := s.articleRepo.Create(txCtx, article); err != nil {
			return err
		}
		_, err := snapshotArticle(txCtx, s.revRepo, article, false, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		"id", article.ID,
		"title", article.Title,
		"weight_score", article.WeightScore,
	)

	return article, nil
}

// GetArticle retrieves an active article
func (s *articleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// ListArticles returns a page of active articles and the total count
func (s *articleService) ListArticles(ctx context.Context, opts *models.ListOptions) ([]models.Article, int, error) {
	if opts == nil {
		opts = &models.ListOptions{}
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.articleRepo.List(ctx, opts)
}

// UpdateArticle patches the live article and snapshots the result as a
// new published revision, atomically.
func (s *articleService) UpdateArticle(ctx context.Context, id string, req *services.UpdateArticleRequest) (*models.Article, error) {
	if req == nil || req.Empty() {
		return nil, fmt.Errorf("%w: update carries no fields", domain.ErrValidation)
	}
	if err := validateUpdateArticle(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Tags != nil {
		article.Tags = normalizeTags(*req.Tags)
	}
	if req.WeightScore != nil {
		article.WeightScore = *req.WeightScore
	}
	if req.IsPublic != nil {
		article.IsPublic = *req.IsPublic
	}

	now := time.Now()
	err = withSnapshotRetry(ctx, s.txManager, func(txCtx context.Context) error {
		if err := s.articleRepo.Update(txCtx, article); err != nil {
			return err
		}
		_, err := snapshotArticle(txCtx, s.revRepo, article, false, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article updated", "id", article.ID)

	return article, nil
}

// DeleteArticle soft-deletes an article; revision history is kept
func (s *articleService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.articleRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("article deleted", "id", id)
	return nil
}

// RecordVote applies a helpful/unhelpful vote. The counter increment
// and the clamped weight adjustment land in a single statement, so
// concurrent votes never lose updates. No snapshot is taken: votes are
// feedback on the live article, not an edit.
func (s *articleService) RecordVote(ctx context.Context, id string, helpful bool) (*models.Article, error) {
	article, err := s.articleRepo.ApplyVote(ctx, id, helpful)
	if err != nil {
		return nil, err
	}

	s.logger.Info("vote recorded",
		"id", id,
		"helpful", helpful,
		"weight_score", article.WeightScore,
	)

	return article, nil
}

// RecordView bumps the view counter
func (s *articleService) RecordView(ctx context.Context, id string) error {
	return s.articleRepo.IncrementViewCount(ctx, id)
}

// GetNotes returns the article's free-form notes
func (s *articleService) GetNotes(ctx context.Context, id string) (*string, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return article.Notes, nil
}

// SetNotes sets or clears the article's free-form notes
func (s *articleService) SetNotes(ctx context.Context, id string, notes *string) error {
	if notes != nil && len(*notes) > config.MaxNotesLength {
		return fmt.Errorf("%w: notes cannot exceed %d characters", domain.ErrValidation, config.MaxNotesLength)
	}
	return s.articleRepo.SetNotes(ctx, id, notes)
}

// ImportArticles bulk-creates articles, collecting per-item errors so a
// bad record does not abort the batch.
func (s *articleService) ImportArticles(ctx context.Context, items []services.CreateArticleRequest) (*services.ImportResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: import batch is empty", domain.ErrValidation)
	}
	if len(items) > config.MaxImportBatchSize {
		return nil, fmt.Errorf("%w: import batch cannot exceed %d items", domain.ErrValidation, config.MaxImportBatchSize)
	}

	result := &services.ImportResult{}
	for i := range items {
		if _, err := s.CreateArticle(ctx, &items[i]); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("item %d (%q): %v", i, items[i].Title, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("import finished",
		"imported", result.Imported,
		"failed", result.Failed,
	)

	return result, nil
}

// WipeAll deletes every article. Destructive, admin-only.
func (s *articleService) WipeAll(ctx context.Context) (int64, error) {
	count, err := s.articleRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("all articles wiped", "count", count)
	return count, nil
}

// normalizeTags drops empty entries and returns a non-nil slice
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func validateCreateArticle(req *services.CreateArticleRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxArticleTitleLength),
		),
		validation.Field(&req.Content,
			validation.Required,
			validation.Length(1, config.MaxArticleContentLength),
		),
		validation.Field(&req.Tags,
			validation.Length(0, config.MaxTagsPerArticle),
			validation.Each(validation.Length(1, config.MaxTagLength)),
		),
	); err != nil {
		return err
	}
	return validateWeightScore(req.WeightScore)
}

func validateUpdateArticle(req *services.UpdateArticleRequest) error {
	if req.Title != nil && (*req.Title == "" || len(*req.Title) > config.MaxArticleTitleLength) {
		return fmt.Errorf("title must be 1-%d characters", config.MaxArticleTitleLength)
	}
	if req.Content != nil && (*req.Content == "" || len(*req.Content) > config.MaxArticleContentLength) {
		return fmt.Errorf("content must be 1-%d characters", config.MaxArticleContentLength)
	}
	if req.Tags != nil {
		if len(*req.Tags) > config.MaxTagsPerArticle {
			return fmt.Errorf("cannot have more than %d tags", config.MaxTagsPerArticle)
		}
		for _, t := range *req.Tags {
			if len(t) > config.MaxTagLength {
				return fmt.Errorf("tag %q exceeds %d characters", t, config.MaxTagLength)
			}
		}
	}
	return validateWeightScore(req.WeightScore)
}

func validateWeightScore(w *float64) error {
	if w == nil {
		return nil
	}
	if *w < models.MinWeightScore || *w > models.MaxWeightScore {
		return fmt.Errorf("weight_score must be between %v and %v", models.MinWeightScore, models.MaxWeightScore)
	}
	return nil
}
