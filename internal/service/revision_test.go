package service

import (
	"context"
	"errors"
	"testing"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
)

func newRevisionFixture(t *testing.T) (services.ArticleService, services.RevisionService, *fakeArticleRepo, *fakeRevisionRepo) {
	t.Helper()
	articleRepo := newFakeArticleRepo()
	revRepo := newFakeRevisionRepo()
	tx := &fakeTxManager{}
	articleSvc := NewArticleService(articleRepo, revRepo, tx, testLogger())
	revisionSvc := NewRevisionService(articleRepo, revRepo, tx, testLogger())
	return articleSvc, revisionSvc, articleRepo, revRepo
}

func createArticle(t *testing.T, svc services.ArticleService, title string) *models.Article {
	t.Helper()
	article, err := svc.CreateArticle(context.Background(), &services.CreateArticleRequest{
		Title:   title,
		Content: "initial content",
		Tags:    []string{"seed"},
	})
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}
	return article
}

func TestCreateArticleSnapshotsVersionOne(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "First")

	revs, err := revisionSvc.ListVersions(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(revs) != 1 {
		t.Fatalf("expected one revision after create, got %d", len(revs))
	}
	rev := revs[0]
	if rev.VersionNumber != 1 || rev.IsDraft || rev.PublishedAt == nil {
		t.Errorf("create snapshot = %+v, want published version 1", rev)
	}
	if rev.Title != "First" {
		t.Errorf("snapshot title = %q, want %q", rev.Title, "First")
	}
}

func TestUpdateArticleAppendsPublishedSnapshot(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "First")

	newTitle := "Second"
	if _, err := articleSvc.UpdateArticle(context.Background(), article.ID, &services.UpdateArticleRequest{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateArticle() error = %v", err)
	}

	revs, err := revisionSvc.ListVersions(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("expected two revisions after update, got %d", len(revs))
	}
	// Newest first
	if revs[0].VersionNumber != 2 || revs[0].Title != "Second" || revs[0].IsDraft {
		t.Errorf("latest revision = %+v, want published version 2 titled Second", revs[0])
	}
	if revs[1].VersionNumber != 1 || revs[1].Title != "First" {
		t.Errorf("history rewritten: %+v", revs[1])
	}
}

func TestDraftLifecycle(t *testing.T) {
	articleSvc, revisionSvc, articleRepo, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Live")
	ctx := context.Background()

	// Draft gets the next contiguous version number
	draft, err := revisionSvc.CreateDraft(ctx, article.ID)
	if err != nil {
		t.Fatalf("CreateDraft() error = %v", err)
	}
	if draft.VersionNumber != 2 || !draft.IsDraft {
		t.Fatalf("draft = %+v, want draft version 2", draft)
	}

	// Draft editing does not touch the live article
	newTitle := "Draft title"
	if _, err := revisionSvc.UpdateDraft(ctx, article.ID, draft.VersionNumber, &services.UpdateDraftRequest{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateDraft() error = %v", err)
	}
	live, _ := articleRepo.GetByID(ctx, article.ID)
	if live.Title != "Live" {
		t.Errorf("draft edit leaked into live article: %q", live.Title)
	}

	// Publishing applies the draft and snapshots the result
	published, err := revisionSvc.PublishDraft(ctx, article.ID, draft.VersionNumber)
	if err != nil {
		t.Fatalf("PublishDraft() error = %v", err)
	}
	if published.Title != "Draft title" {
		t.Errorf("publish did not apply draft: %q", published.Title)
	}

	revs, _ := revisionSvc.ListVersions(ctx, article.ID)
	if len(revs) != 3 {
		t.Fatalf("expected versions 1..3 after publish, got %d revisions", len(revs))
	}
	for i, rev := range revs {
		wantVersion := len(revs) - i
		if rev.VersionNumber != wantVersion {
			t.Errorf("version numbering not contiguous: got %d at position %d", rev.VersionNumber, i)
		}
		if rev.IsDraft {
			t.Errorf("version %d still a draft after publish", rev.VersionNumber)
		}
	}

	// The live article equals the most recently published revision
	if revs[0].Title != published.Title {
		t.Errorf("live article diverged from latest snapshot: %q vs %q", published.Title, revs[0].Title)
	}
}

func TestPublishRejectsNonDraft(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Live")

	_, err := revisionSvc.PublishDraft(context.Background(), article.ID, 1)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("publishing a published revision: error = %v, want ErrInvalidState", err)
	}
}

func TestUpdateDraftRejectsPublished(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Live")

	title := "x"
	_, err := revisionSvc.UpdateDraft(context.Background(), article.ID, 1, &services.UpdateDraftRequest{Title: &title})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("editing a published revision: error = %v, want ErrInvalidState", err)
	}
}

func TestRollbackRestoresAndAppends(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Original")
	ctx := context.Background()

	second := "Updated"
	if _, err := articleSvc.UpdateArticle(ctx, article.ID, &services.UpdateArticleRequest{Title: &second}); err != nil {
		t.Fatalf("UpdateArticle() error = %v", err)
	}

	restored, err := revisionSvc.Rollback(ctx, article.ID, 1)
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if restored.Title != "Original" {
		t.Errorf("rollback restored %q, want %q", restored.Title, "Original")
	}

	// History grows; nothing is deleted or renumbered
	revs, _ := revisionSvc.ListVersions(ctx, article.ID)
	if len(revs) != 3 {
		t.Fatalf("expected three revisions after rollback, got %d", len(revs))
	}
	if revs[0].VersionNumber != 3 || revs[0].Title != "Original" || revs[0].IsDraft {
		t.Errorf("rollback snapshot = %+v, want published version 3 titled Original", revs[0])
	}
	if revs[1].Title != "Updated" {
		t.Errorf("rollback rewrote history: %+v", revs[1])
	}
}

func TestRollbackRejectsDraftTarget(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Live")
	ctx := context.Background()

	draft, err := revisionSvc.CreateDraft(ctx, article.ID)
	if err != nil {
		t.Fatalf("CreateDraft() error = %v", err)
	}

	_, err = revisionSvc.Rollback(ctx, article.ID, draft.VersionNumber)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("rollback to draft: error = %v, want ErrInvalidState", err)
	}
}

func TestRevisionOpsOnMissingArticle(t *testing.T) {
	_, revisionSvc, _, _ := newRevisionFixture(t)
	ctx := context.Background()

	if _, err := revisionSvc.ListVersions(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ListVersions(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := revisionSvc.CreateDraft(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("CreateDraft(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := revisionSvc.PublishDraft(ctx, "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("PublishDraft(missing) error = %v, want ErrNotFound", err)
	}
}
