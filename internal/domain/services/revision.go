package services

import (
	"context"

	"kbase/internal/domain/models"
)

// RevisionService governs the draft/published state machine on top of
// article snapshots. Version numbers per article are contiguous from 1,
// strictly increasing in creation order, never reused or renumbered.
// After any publish or rollback the live article equals the most
// recently published revision.
type RevisionService interface {
	// ListVersions returns all revisions of an article, version number
	// descending
	ListVersions(ctx context.Context, articleID string) ([]models.Revision, error)

	// CreateDraft snapshots the current live article as a draft with the
	// next version number
	CreateDraft(ctx context.Context, articleID string) (*models.Revision, error)

	// UpdateDraft patches the snapshot fields of an existing draft
	UpdateDraft(ctx context.Context, articleID string, version int, req *UpdateDraftRequest) (*models.Revision, error)

	// PublishDraft applies a draft onto the live article, marks the
	// draft published, and takes one more published snapshot of the
	// result. Publishing therefore advances the version counter past
	// the draft's own number.
	PublishDraft(ctx context.Context, articleID string, version int) (*models.Article, error)

	// Rollback copies a published revision's fields onto the live
	// article and snapshots the result as a new published revision.
	// The version counter only ever moves forward.
	Rollback(ctx context.Context, articleID string, version int) (*models.Article, error)
}

// UpdateDraftRequest is a partial update of a draft's snapshot fields.
// Absent fields are left unchanged; version number and draft flag can
// never be patched.
type UpdateDraftRequest struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	WeightScore *float64  `json:"weight_score,omitempty"`
	IsPublic    *bool     `json:"is_public,omitempty"`
}
