package repositories

import (
	"context"

	"kbase/internal/domain/models"
)

// FieldRepository defines data access for dynamic field definitions,
// their options and per-article values.
type FieldRepository interface {
	// CreateField inserts a field definition with its options
	CreateField(ctx context.Context, field *models.DynamicField) error

	// GetField retrieves a field with its options
	GetField(ctx context.Context, id string) (*models.DynamicField, error)

	// ListFields returns fields ordered by sort order then name
	ListFields(ctx context.Context, includeInactive bool) ([]models.DynamicField, error)

	// UpdateField writes a field's properties; when options is non-nil
	// the option set is replaced wholesale
	UpdateField(ctx context.Context, field *models.DynamicField, replaceOptions bool) error

	// DeleteField soft-deletes a field, or hard-deletes it with its
	// options and values
	DeleteField(ctx context.Context, id string, hard bool) error

	// ListValues returns the values of active fields for an article
	ListValues(ctx context.Context, articleID string) ([]models.FieldValue, error)

	// SetValue upserts one field value for an article
	SetValue(ctx context.Context, articleID, fieldID, value string) (*models.FieldValue, error)

	// DeleteValue removes one field value for an article
	DeleteValue(ctx context.Context, articleID, fieldID string) error
}
