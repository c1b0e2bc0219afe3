package services

import (
	"context"

	"kbase/internal/domain/models"
)

// FieldService manages dynamic field definitions and per-article values.
// Structural checks only (known field, option list for select types);
// value-level validation belongs to the attribute subsystem.
type FieldService interface {
	// CreateField creates a field definition with its options
	CreateField(ctx context.Context, req *CreateFieldRequest) (*models.DynamicField, error)

	// GetField retrieves a field with its options
	GetField(ctx context.Context, id string) (*models.DynamicField, error)

	// ListFields returns field definitions, sort order ascending
	ListFields(ctx context.Context, includeInactive bool) ([]models.DynamicField, error)

	// UpdateField patches a field definition; a non-nil Options slice
	// replaces the option set
	UpdateField(ctx context.Context, id string, req *UpdateFieldRequest) (*models.DynamicField, error)

	// DeleteField soft-deletes (default) or hard-deletes a field
	DeleteField(ctx context.Context, id string, hard bool) error

	// ListArticleValues returns an article's field values
	ListArticleValues(ctx context.Context, articleID string) ([]models.FieldValue, error)

	// SetArticleValues upserts field values for an article
	SetArticleValues(ctx context.Context, articleID string, values map[string]string) ([]models.FieldValue, error)

	// DeleteArticleValue removes one field value from an article
	DeleteArticleValue(ctx context.Context, articleID, fieldID string) error
}

// CreateFieldOption is one option of a select/multiselect field request
type CreateFieldOption struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// CreateFieldRequest represents a field definition creation request
type CreateFieldRequest struct {
	Name        string              `json:"name"`
	Label       string              `json:"label"`
	FieldType   models.FieldType    `json:"field_type"`
	IsRequired  bool                `json:"is_required,omitempty"`
	IsActive    *bool               `json:"is_active,omitempty"`
	SortOrder   int                 `json:"sort_order,omitempty"`
	Placeholder string              `json:"placeholder,omitempty"`
	HelpText    string              `json:"help_text,omitempty"`
	Options     []CreateFieldOption `json:"options,omitempty"`
}

// UpdateFieldRequest represents a partial field definition update
type UpdateFieldRequest struct {
	Label       *string             `json:"label,omitempty"`
	IsRequired  *bool               `json:"is_required,omitempty"`
	IsActive    *bool               `json:"is_active,omitempty"`
	SortOrder   *int                `json:"sort_order,omitempty"`
	Placeholder *string             `json:"placeholder,omitempty"`
	HelpText    *string             `json:"help_text,omitempty"`
	Options     []CreateFieldOption `json:"options,omitempty"`
}
