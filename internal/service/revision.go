package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kbase/internal/config"
	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
	"kbase/internal/domain/services"
)

// revisionService implements the RevisionService interface
type revisionService struct {
	articleRepo repositories.ArticleRepository
	revRepo     repositories.RevisionRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewRevisionService creates a new revision service
func NewRevisionService(
	articleRepo repositories.ArticleRepository,
	revRepo repositories.RevisionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.RevisionService {
	return &revisionService{
		articleRepo: articleRepo,
		revRepo:     revRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ListVersions returns all revisions of an article, version number
// descending. The article must exist and be active.
func (s *revisionService) ListVersions(ctx context.Context, articleID string) ([]models.Revision, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.revRepo.ListByArticle(ctx, articleID)
}

// CreateDraft snapshots the current live article as a draft with the
// next version number.
func (s *revisionService) CreateDraft(ctx context.Context, articleID string) (*models.Revision, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	var rev *models.Revision
	now := time.Now()
	err = withSnapshotRetry(ctx, s.txManager, func(txCtx context.Context) error {
		var err error
		rev, err = snapshotArticle(txCtx, s.revRepo, article, true, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft created",
		"article_id", articleID,
		"version", rev.VersionNumber,
	)

	return rev, nil
}

// UpdateDraft patches the snapshot fields of an existing draft. The
// version number and draft flag are immutable.
func (s *revisionService) UpdateDraft(ctx context.Context, articleID string, version int, req *services.UpdateDraftRequest) (*models.Revision, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: update carries no fields", domain.ErrValidation)
	}
	if err := validateDraftUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	rev, err := s.revRepo.GetByVersion(ctx, articleID, version)
	if err != nil {
		return nil, err
	}
	if !rev.IsDraft {
		return nil, fmt.Errorf("version %d is published and cannot be edited: %w", version, domain.ErrInvalidState)
	}

	if req.Title != nil {
		rev.Title = *req.Title
	}
	if req.Content != nil {
		rev.Content = *req.Content
	}
	if req.Tags != nil {
		rev.Tags = normalizeTags(*req.Tags)
	}
	if req.WeightScore != nil {
		rev.WeightScore = *req.WeightScore
	}
	if req.IsPublic != nil {
		rev.IsPublic = *req.IsPublic
	}

	if err := s.revRepo.UpdateSnapshot(ctx, rev); err != nil {
		return nil, err
	}

	s.logger.Info("draft updated", "article_id", articleID, "version", version)

	return rev, nil
}

// PublishDraft applies a draft onto the live article, marks the draft
// published, and snapshots the resulting live state as one more
// published revision. The extra snapshot keeps the tail of the history
// a published revision equal to the live article even if the draft is
// later inspected.
func (s *revisionService) PublishDraft(ctx context.Context, articleID string, version int) (*models.Article, error) {
	var article *models.Article

	now := time.Now()
	err := withSnapshotRetry(ctx, s.txManager, func(txCtx context.Context) error {
		rev, err := s.revRepo.GetByVersion(txCtx, articleID, version)
		if err != nil {
			return err
		}
		if !rev.IsDraft {
			return fmt.Errorf("version %d is not a draft: %w", version, domain.ErrInvalidState)
		}

		article, err = s.articleRepo.GetByID(txCtx, articleID)
		if err != nil {
			return err
		}

		rev.ApplyTo(article)
		if err := s.articleRepo.Update(txCtx, article); err != nil {
			return err
		}
		if err := s.revRepo.MarkPublished(txCtx, articleID, version, now); err != nil {
			return err
		}

		_, err = snapshotArticle(txCtx, s.revRepo, article, false, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft published",
		"article_id", articleID,
		"version", version,
	)

	return article, nil
}

// Rollback copies a published revision's fields onto the live article
// and snapshots the result as a new published revision. History only
// ever grows; no revision is deleted or renumbered.
func (s *revisionService) Rollback(ctx context.Context, articleID string, version int) (*models.Article, error) {
	var article *models.Article

	now := time.Now()
	err := withSnapshotRetry(ctx, s.txManager, func(txCtx context.Context) error {
		rev, err := s.revRepo.GetByVersion(txCtx, articleID, version)
		if err != nil {
			return err
		}
		if rev.IsDraft {
			return fmt.Errorf("cannot roll back to draft version %d: %w", version, domain.ErrInvalidState)
		}

		article, err = s.articleRepo.GetByID(txCtx, articleID)
		if err != nil {
			return err
		}

		rev.ApplyTo(article)
		if err := s.articleRepo.Update(txCtx, article); err != nil {
			return err
		}

		_, err = snapshotArticle(txCtx, s.revRepo, article, false, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article rolled back",
		"article_id", articleID,
		"to_version", version,
	)

	return article, nil
}

func validateDraftUpdate(req *services.UpdateDraftRequest) error {
	if req.Title != nil && (*req.Title == "" || len(*req.Title) > config.MaxArticleTitleLength) {
		return fmt.Errorf("title must be 1-%d characters", config.MaxArticleTitleLength)
	}
	if req.Content != nil && (*req.Content == "" || len(*req.Content) > config.MaxArticleContentLength) {
		return fmt.Errorf("content must be 1-%d characters", config.MaxArticleContentLength)
	}
	if req.Tags != nil && len(*req.Tags) > config.MaxTagsPerArticle {
		return fmt.Errorf("cannot have more than %d tags", config.MaxTagsPerArticle)
	}
	return validateWeightScore(req.WeightScore)
}
