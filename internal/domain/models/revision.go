package models

import (
	"time"
)

// Revision is a snapshot of an article's editable fields at a point in
// time. Version numbers are unique and contiguous per article, starting
// at 1, and are never reused or renumbered - not even after rollback.
//
// A revision is either a draft (mutable, not applied to the live
// article) or published (immutable, published_at set). Published
// revisions never regress to drafts.
type Revision struct {
	ID            string     `json:"id" db:"id"`
	ArticleID     string     `json:"article_id" db:"article_id"`
	VersionNumber int        `json:"version_number" db:"version_number"`
	Title         string     `json:"title" db:"title"`
	Content       string     `json:"content" db:"content"`
	Tags          []string   `json:"tags" db:"tags"`
	WeightScore   float64    `json:"weight_score" db:"weight_score"`
	IsPublic      bool       `json:"is_public" db:"is_public"`
	IsDraft       bool       `json:"is_draft" db:"is_draft"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty" db:"published_at"`
}

// SnapshotOf builds a revision carrying the article's current editable
// fields. The caller supplies the per-article version number (allocation
// must be linearized against concurrent writers) and the row ID.
func SnapshotOf(a *Article, id string, version int, draft bool, now time.Time) *Revision {
	rev := &Revision{
		ID:            id,
		ArticleID:     a.ID,
		VersionNumber: version,
		Title:         a.Title,
		Content:       a.Content,
		Tags:          append([]string(nil), a.Tags...),
		WeightScore:   a.WeightScore,
		IsPublic:      a.IsPublic,
		IsDraft:       draft,
		CreatedAt:     now,
	}
	if !draft {
		publishedAt := now
		rev.PublishedAt = &publishedAt
	}
	return rev
}

// ApplyTo copies the revision's snapshot fields onto the live article.
// Identity, counters and the active flag are untouched.
func (r *Revision) ApplyTo(a *Article) {
	a.Title = r.Title
	a.Content = r.Content
	a.Tags = append([]string(nil), r.Tags...)
	a.WeightScore = r.WeightScore
	a.IsPublic = r.IsPublic
}
