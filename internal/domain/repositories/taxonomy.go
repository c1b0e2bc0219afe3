package repositories

import (
	"context"

	"kbase/internal/domain/models"
)

// TaxonomyRepository defines data access for platform/product labels and
// their article associations. Both kinds share a schema; the kind picks
// the table pair.
type TaxonomyRepository interface {
	// CreateLabel inserts a new label
	CreateLabel(ctx context.Context, kind models.LabelKind, label *models.Label) error

	// GetLabel retrieves a label by ID
	GetLabel(ctx context.Context, kind models.LabelKind, id string) (*models.Label, error)

	// ListLabels returns labels ordered by name
	ListLabels(ctx context.Context, kind models.LabelKind, includeInactive bool) ([]models.Label, error)

	// UpdateLabel writes a label's editable fields
	UpdateLabel(ctx context.Context, kind models.LabelKind, label *models.Label) error

	// DeleteLabel soft-deletes a label, or hard-deletes it together
	// with its article associations
	DeleteLabel(ctx context.Context, kind models.LabelKind, id string, hard bool) error

	// ListArticleLabels returns the labels associated with an article
	ListArticleLabels(ctx context.Context, kind models.LabelKind, articleID string) ([]models.Label, error)

	// SetArticleLabels replaces an article's association set: links not
	// in labelIDs are removed, missing ones are added.
	SetArticleLabels(ctx context.Context, kind models.LabelKind, articleID string, labelIDs []string) error
}
