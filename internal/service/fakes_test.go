package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
)

// In-memory fakes for the repository interfaces. They implement just
// enough behavior for the service state machines to be exercised
// without a database.

type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeArticleRepo struct {
	articles map[string]*models.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[string]*models.Article)}
}

func copyArticle(a *models.Article) *models.Article {
	c := *a
	c.Tags = append([]string(nil), a.Tags...)
	return &c
}

func (r *fakeArticleRepo) Create(ctx context.Context, article *models.Article) error {
	if _, ok := r.articles[article.ID]; ok {
		return fmt.Errorf("article %s: %w", article.ID, domain.ErrConflict)
	}
	r.articles[article.ID] = copyArticle(article)
	return nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok || !a.IsActive {
		return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return copyArticle(a), nil
}

func (r *fakeArticleRepo) List(ctx context.Context, opts *models.ListOptions) ([]models.Article, int, error) {
	var out []models.Article
	for _, a := range r.articles {
		if !a.IsActive {
			continue
		}
		if opts.PublicOnly && !a.IsPublic {
			continue
		}
		out = append(out, *copyArticle(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if opts.SortBy == models.SortByWeightScore {
			if out[i].WeightScore != out[j].WeightScore {
				return out[i].WeightScore > out[j].WeightScore
			}
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	total := len(out)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, total, nil
}

func (r *fakeArticleRepo) Update(ctx context.Context, article *models.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return fmt.Errorf("article %s: %w", article.ID, domain.ErrNotFound)
	}
	article.UpdatedAt = time.Now()
	r.articles[article.ID] = copyArticle(article)
	return nil
}

func (r *fakeArticleRepo) SetNotes(ctx context.Context, id string, notes *string) error {
	a, ok := r.articles[id]
	if !ok {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	a.Notes = notes
	return nil
}

func (r *fakeArticleRepo) SoftDelete(ctx context.Context, id string) error {
	a, ok := r.articles[id]
	if !ok || !a.IsActive {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	a.IsActive = false
	return nil
}

func (r *fakeArticleRepo) IncrementViewCount(ctx context.Context, id string) error {
	a, ok := r.articles[id]
	if !ok {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	a.ViewCount++
	return nil
}

func (r *fakeArticleRepo) ApplyVote(ctx context.Context, id string, helpful bool) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok || !a.IsActive {
		return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	if helpful {
		a.HelpfulVotes++
	} else {
		a.UnhelpfulVotes++
	}
	a.WeightScore = models.AdjustedWeight(a.WeightScore, helpful)
	return copyArticle(a), nil
}

func (r *fakeArticleRepo) matches(a *models.Article, term string) bool {
	if strings.Contains(strings.ToLower(a.Title), term) ||
		strings.Contains(strings.ToLower(a.Content), term) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func (r *fakeArticleRepo) Search(ctx context.Context, query *models.ParsedQuery, opts *models.SearchOptions) ([]models.Article, error) {
	var out []models.Article
next:
	for _, a := range r.articles {
		if !a.IsActive || (opts.PublicOnly && !a.IsPublic) {
			continue
		}
		for _, term := range query.Required {
			if !r.matches(a, term) {
				continue next
			}
		}
		for _, term := range query.Excluded {
			if r.matches(a, term) {
				continue next
			}
		}
		if len(query.Required) == 0 && len(query.Optional) > 0 {
			hit := false
			for _, term := range query.Optional {
				if r.matches(a, term) {
					hit = true
					break
				}
			}
			if !hit {
				continue next
			}
		}
		out = append(out, *copyArticle(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightScore != out[j].WeightScore {
			return out[i].WeightScore > out[j].WeightScore
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *fakeArticleRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.articles))
	r.articles = make(map[string]*models.Article)
	return n, nil
}

type fakeRevisionRepo struct {
	revisions map[string][]*models.Revision

	// insertConflicts makes the next N Insert calls fail with
	// ErrConflict, simulating a lost version-number race.
	insertConflicts int
}

func newFakeRevisionRepo() *fakeRevisionRepo {
	return &fakeRevisionRepo{revisions: make(map[string][]*models.Revision)}
}

func copyRevision(r *models.Revision) *models.Revision {
	c := *r
	c.Tags = append([]string(nil), r.Tags...)
	if r.PublishedAt != nil {
		at := *r.PublishedAt
		c.PublishedAt = &at
	}
	return &c
}

func (r *fakeRevisionRepo) NextVersionNumber(ctx context.Context, articleID string) (int, error) {
	max := 0
	for _, rev := range r.revisions[articleID] {
		if rev.VersionNumber > max {
			max = rev.VersionNumber
		}
	}
	return max + 1, nil
}

func (r *fakeRevisionRepo) Insert(ctx context.Context, rev *models.Revision) error {
	if r.insertConflicts > 0 {
		r.insertConflicts--
		return fmt.Errorf("version %d: %w", rev.VersionNumber, domain.ErrConflict)
	}
	for _, existing := range r.revisions[rev.ArticleID] {
		if existing.VersionNumber == rev.VersionNumber {
			return fmt.Errorf("version %d: %w", rev.VersionNumber, domain.ErrConflict)
		}
	}
	r.revisions[rev.ArticleID] = append(r.revisions[rev.ArticleID], copyRevision(rev))
	return nil
}

func (r *fakeRevisionRepo) GetByVersion(ctx context.Context, articleID string, version int) (*models.Revision, error) {
	for _, rev := range r.revisions[articleID] {
		if rev.VersionNumber == version {
			return copyRevision(rev), nil
		}
	}
	return nil, fmt.Errorf("version %d: %w", version, domain.ErrNotFound)
}

func (r *fakeRevisionRepo) ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error) {
	revs := r.revisions[articleID]
	out := make([]models.Revision, 0, len(revs))
	for _, rev := range revs {
		out = append(out, *copyRevision(rev))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber > out[j].VersionNumber
	})
	return out, nil
}

func (r *fakeRevisionRepo) UpdateSnapshot(ctx context.Context, rev *models.Revision) error {
	for i, existing := range r.revisions[rev.ArticleID] {
		if existing.VersionNumber == rev.VersionNumber {
			if !existing.IsDraft {
				return fmt.Errorf("version %d: %w", rev.VersionNumber, domain.ErrNotFound)
			}
			r.revisions[rev.ArticleID][i] = copyRevision(rev)
			return nil
		}
	}
	return fmt.Errorf("version %d: %w", rev.VersionNumber, domain.ErrNotFound)
}

func (r *fakeRevisionRepo) MarkPublished(ctx context.Context, articleID string, version int, publishedAt time.Time) error {
	for _, existing := range r.revisions[articleID] {
		if existing.VersionNumber == version {
			if !existing.IsDraft {
				return fmt.Errorf("version %d: %w", version, domain.ErrNotFound)
			}
			existing.IsDraft = false
			at := publishedAt
			existing.PublishedAt = &at
			return nil
		}
	}
	return fmt.Errorf("version %d: %w", version, domain.ErrNotFound)
}
