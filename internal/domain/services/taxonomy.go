package services

import (
	"context"

	"kbase/internal/domain/models"
)

// TaxonomyService manages platform/product labels and their article
// associations.
type TaxonomyService interface {
	// CreateLabel creates a new label
	CreateLabel(ctx context.Context, kind models.LabelKind, req *CreateLabelRequest) (*models.Label, error)

	// GetLabel retrieves a label
	GetLabel(ctx context.Context, kind models.LabelKind, id string) (*models.Label, error)

	// ListLabels returns labels of one kind, name ascending
	ListLabels(ctx context.Context, kind models.LabelKind, includeInactive bool) ([]models.Label, error)

	// UpdateLabel patches a label
	UpdateLabel(ctx context.Context, kind models.LabelKind, id string, req *UpdateLabelRequest) (*models.Label, error)

	// DeleteLabel soft-deletes (default) or hard-deletes a label
	DeleteLabel(ctx context.Context, kind models.LabelKind, id string, hard bool) error

	// ListArticleLabels returns the labels of one kind on an article
	ListArticleLabels(ctx context.Context, kind models.LabelKind, articleID string) ([]models.Label, error)

	// SetArticleLabels replaces an article's label set of one kind
	SetArticleLabels(ctx context.Context, kind models.LabelKind, articleID string, labelIDs []string) ([]models.Label, error)
}

// CreateLabelRequest represents a label creation request
type CreateLabelRequest struct {
	Name        string  `json:"name"`
	Slug        *string `json:"slug,omitempty"`
	Description string  `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateLabelRequest represents a partial label update
type UpdateLabelRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
