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

// fieldService implements the FieldService interface
type fieldService struct {
	fieldRepo   repositories.FieldRepository
	articleRepo repositories.ArticleRepository
	logger      *slog.Logger
}

// NewFieldService creates a new dynamic field service
func NewFieldService(
	fieldRepo repositories.FieldRepository,
	articleRepo repositories.ArticleRepository,
	logger *slog.Logger,
) services.FieldService {
	return &fieldService{
		fieldRepo:   fieldRepo,
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// CreateField creates a field definition with its options
func (s *fieldService) CreateField(ctx context.Context, req *services.CreateFieldRequest) (*models.DynamicField, error) {
	if err := validateCreateField(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	field := &models.DynamicField{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Label:       req.Label,
		FieldType:   req.FieldType,
		IsRequired:  req.IsRequired,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		Placeholder: req.Placeholder,
		HelpText:    req.HelpText,
		Options:     buildOptions(req.Options, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		field.IsActive = *req.IsActive
	}
	for i := range field.Options {
		field.Options[i].FieldID = field.ID
	}

	if err := s.fieldRepo.CreateField(ctx, field); err != nil {
		return nil, err
	}

	s.logger.Info("field created",
		"id", field.ID,
		"name", field.Name,
		"type", field.FieldType,
	)

	return field, nil
}

// GetField retrieves a field with its options
func (s *fieldService) GetField(ctx context.Context, id string) (*models.DynamicField, error) {
	return s.fieldRepo.GetField(ctx, id)
}

// ListFields returns field definitions, sort order ascending
func (s *fieldService) ListFields(ctx context.Context, includeInactive bool) ([]models.DynamicField, error) {
	return s.fieldRepo.ListFields(ctx, includeInactive)
}

// UpdateField patches a field definition. A non-nil Options slice
// replaces the option set wholesale; the field type itself is immutable.
func (s *fieldService) UpdateField(ctx context.Context, id string, req *services.UpdateFieldRequest) (*models.DynamicField, error) {
	field, err := s.fieldRepo.GetField(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		if *req.Label == "" || len(*req.Label) > config.MaxFieldNameLength {
			return nil, fmt.Errorf("%w: label must be 1-%d characters", domain.ErrValidation, config.MaxFieldNameLength)
		}
		field.Label = *req.Label
	}
	if req.IsRequired != nil {
		field.IsRequired = *req.IsRequired
	}
	if req.IsActive != nil {
		field.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		field.SortOrder = *req.SortOrder
	}
	if req.Placeholder != nil {
		field.Placeholder = *req.Placeholder
	}
	if req.HelpText != nil {
		field.HelpText = *req.HelpText
	}

	replaceOptions := req.Options != nil
	if replaceOptions {
		if !field.FieldType.HasOptions() {
			return nil, fmt.Errorf("%w: field type %q does not carry options", domain.ErrValidation, field.FieldType)
		}
		field.Options = buildOptions(req.Options, time.Now())
		for i := range field.Options {
			field.Options[i].FieldID = field.ID
		}
	}

	if err := s.fieldRepo.UpdateField(ctx, field, replaceOptions); err != nil {
		return nil, err
	}

	s.logger.Info("field updated", "id", id, "options_replaced", replaceOptions)

	return field, nil
}

// DeleteField soft-deletes (default) or hard-deletes a field
func (s *fieldService) DeleteField(ctx context.Context, id string, hard bool) error {
	if err := s.fieldRepo.DeleteField(ctx, id, hard); err != nil {
		return err
	}
	s.logger.Info("field deleted", "id", id, "hard", hard)
	return nil
}

// ListArticleValues returns an article's field values
func (s *fieldService) ListArticleValues(ctx context.Context, articleID string) ([]models.FieldValue, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.fieldRepo.ListValues(ctx, articleID)
}

// SetArticleValues upserts field values for an article. Unknown or
// inactive fields are rejected; select-type values must name a known
// option.
func (s *fieldService) SetArticleValues(ctx context.Context, articleID string, values map[string]string) ([]models.FieldValue, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no field values provided", domain.ErrValidation)
	}
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}

	for fieldID, value := range values {
		field, err := s.fieldRepo.GetField(ctx, fieldID)
		if err != nil {
			return nil, err
		}
		if !field.IsActive {
			return nil, fmt.Errorf("field %s is inactive: %w", fieldID, domain.ErrInvalidState)
		}
		if field.FieldType == models.FieldTypeSelect && !hasOptionValue(field.Options, value) {
			return nil, fmt.Errorf("%w: %q is not an option of field %q", domain.ErrValidation, value, field.Name)
		}

		if _, err := s.fieldRepo.SetValue(ctx, articleID, fieldID, value); err != nil {
			return nil, err
		}
	}

	s.logger.Info("article field values set",
		"article_id", articleID,
		"count", len(values),
	)

	return s.fieldRepo.ListValues(ctx, articleID)
}

// DeleteArticleValue removes one field value from an article
func (s *fieldService) DeleteArticleValue(ctx context.Context, articleID, fieldID string) error {
	return s.fieldRepo.DeleteValue(ctx, articleID, fieldID)
}

func hasOptionValue(options []models.FieldOption, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func buildOptions(reqs []services.CreateFieldOption, now time.Time) []models.FieldOption {
	options := make([]models.FieldOption, 0, len(reqs))
	for i, req := range reqs {
		opt := models.FieldOption{
			ID:        uuid.New().String(),
			Value:     req.Value,
			Label:     req.Label,
			SortOrder: req.SortOrder,
			IsActive:  true,
			CreatedAt: now,
		}
		if opt.SortOrder == 0 {
			opt.SortOrder = i
		}
		if req.IsActive != nil {
			opt.IsActive = *req.IsActive
		}
		options = append(options, opt)
	}
	return options
}

func validateCreateField(req *services.CreateFieldRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFieldNameLength),
		),
		validation.Field(&req.Label,
			validation.Required,
			validation.Length(1, config.MaxFieldNameLength),
		),
	); err != nil {
		return err
	}
	if err := req.FieldType.Validate(); err != nil {
		return err
	}
	if req.FieldType.HasOptions() && len(req.Options) == 0 {
		return fmt.Errorf("field type %q requires at least one option", req.FieldType)
	}
	if !req.FieldType.HasOptions() && len(req.Options) > 0 {
		return fmt.Errorf("field type %q does not carry options", req.FieldType)
	}
	for _, opt := range req.Options {
		if opt.Value == "" {
			return fmt.Errorf("option value cannot be empty")
		}
	}
	return nil
}
