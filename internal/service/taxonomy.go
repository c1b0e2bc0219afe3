package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"kbase/internal/config"
	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
	"kbase/internal/domain/services"
)

// taxonomyService implements the TaxonomyService interface
type taxonomyService struct {
	taxonomyRepo repositories.TaxonomyRepository
	articleRepo  repositories.ArticleRepository
	logger       *slog.Logger
}

// NewTaxonomyService creates a new taxonomy service
func NewTaxonomyService(
	taxonomyRepo repositories.TaxonomyRepository,
	articleRepo repositories.ArticleRepository,
	logger *slog.Logger,
) services.TaxonomyService {
	return &taxonomyService{
		taxonomyRepo: taxonomyRepo,
		articleRepo:  articleRepo,
		logger:       logger,
	}
}

// CreateLabel creates a new label
func (s *taxonomyService) CreateLabel(ctx context.Context, kind models.LabelKind, req *services.CreateLabelRequest) (*models.Label, error) {
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxLabelNameLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	label := &models.Label{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Slug != nil {
		label.Slug = req.Slug
	} else {
		slug := slugify(req.Name)
		label.Slug = &slug
	}
	if req.IsActive != nil {
		label.IsActive = *req.IsActive
	}

	if err := s.taxonomyRepo.CreateLabel(ctx, kind, label); err != nil {
		return nil, err
	}

	s.logger.Info("label created",
		"kind", kind,
		"id", label.ID,
		"name", label.Name,
	)

	return label, nil
}

// GetLabel retrieves a label
func (s *taxonomyService) GetLabel(ctx context.Context, kind models.LabelKind, id string) (*models.Label, error) {
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.taxonomyRepo.GetLabel(ctx, kind, id)
}

// ListLabels returns labels of one kind, name ascending
func (s *taxonomyService) ListLabels(ctx context.Context, kind models.LabelKind, includeInactive bool) ([]models.Label, error) {
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.taxonomyRepo.ListLabels(ctx, kind, includeInactive)
}

// UpdateLabel patches a label
func (s *taxonomyService) UpdateLabel(ctx context.Context, kind models.LabelKind, id string, req *services.UpdateLabelRequest) (*models.Label, error) {
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Name != nil && (*req.Name == "" || len(*req.Name) > config.MaxLabelNameLength) {
		return nil, fmt.Errorf("%w: name must be 1-%d characters", domain.ErrValidation, config.MaxLabelNameLength)
	}

	label, err := s.taxonomyRepo.GetLabel(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		label.Name = *req.Name
	}
	if req.Slug != nil {
		label.Slug = req.Slug
	}
	if req.Description != nil {
		label.Description = *req.Description
	}
	if req.IsActive != nil {
		label.IsActive = *req.IsActive
	}

	if err := s.taxonomyRepo.UpdateLabel(ctx, kind, label); err != nil {
		return nil, err
	}

	s.logger.Info("label updated", "kind", kind, "id", id)

	return label, nil
}

// DeleteLabel soft-deletes (default) or hard-deletes a label
func (s *taxonomyService) DeleteLabel(ctx context.Context, kind models.LabelKind, id string, hard bool) error {
	if err := kind.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.taxonomyRepo.DeleteLabel(ctx, kind, id, hard); err != nil {
		return err
	}
	s.logger.Info("label deleted", "kind", kind, "id", id, "hard", hard)
	return nil
}

// ListArticleLabels returns the labels of one kind on an article
func (s *taxonomyService) ListArticleLabels(ctx context.Context, kind models.LabelKind, articleID string) ([]models.Label, error) {
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.taxonomyRepo.ListArticleLabels(ctx, kind, articleID)
}

// SetArticleLabels replaces an article's label set of one kind and
// returns the resulting associations.
func (s *taxonomyService) SetArticleLabels(ctx context.Context, kind models.LabelKind, articleID string, labelIDs []string) ([]models.Label, error) {
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}

	// Reject unknown label IDs up front so the replacement is all-or-nothing
	for _, id := range labelIDs {
		if _, err := s.taxonomyRepo.GetLabel(ctx, kind, id); err != nil {
			return nil, err
		}
	}

	if err := s.taxonomyRepo.SetArticleLabels(ctx, kind, articleID, labelIDs); err != nil {
		return nil, err
	}

	s.logger.Info("article labels set",
		"kind", kind,
		"article_id", articleID,
		"count", len(labelIDs),
	)

	return s.taxonomyRepo.ListArticleLabels(ctx, kind, articleID)
}

var slugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe slug from a label name
func slugify(name string) string {
	slug := slugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
