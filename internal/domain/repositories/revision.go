package repositories

import (
	"context"
	"time"

	"kbase/internal/domain/models"
)

// RevisionRepository defines data access operations for article
// revisions. Mutating callers run inside a transaction; NextVersionNumber
// linearizes allocation per article so concurrent snapshots cannot
// collide.
type RevisionRepository interface {
	// NextVersionNumber returns max(version_number)+1 for the article.
	// It must be called inside a transaction: it takes a per-article
	// advisory lock held until commit, serializing concurrent
	// allocations. The unique (article_id, version_number) constraint
	// is the backstop if the lock is bypassed.
	NextVersionNumber(ctx context.Context, articleID string) (int, error)

	// Insert writes a new revision row
	Insert(ctx context.Context, rev *models.Revision) error

	// GetByVersion retrieves one revision of an article
	GetByVersion(ctx context.Context, articleID string, version int) (*models.Revision, error)

	// ListByArticle returns all revisions ordered by version number
	// descending
	ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error)

	// UpdateSnapshot overwrites the snapshot fields of a draft revision.
	// Version number and draft flag are never touched here.
	UpdateSnapshot(ctx context.Context, rev *models.Revision) error

	// MarkPublished flips a draft to published and stamps published_at
	MarkPublished(ctx context.Context, articleID string, version int, publishedAt time.Time) error
}
