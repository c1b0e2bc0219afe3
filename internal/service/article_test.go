package service

import (
	"context"
	"errors"
	"testing"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/services"
)

func TestCreateArticleDefaults(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)

	article, err := articleSvc.CreateArticle(context.Background(), &services.CreateArticleRequest{
		Title:   "Defaults",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}

	if article.WeightScore != models.DefaultWeightScore {
		t.Errorf("weight = %v, want default %v", article.WeightScore, models.DefaultWeightScore)
	}
	if !article.IsPublic || !article.IsActive {
		t.Errorf("new article should be public and active: %+v", article)
	}
	if article.ID == "" {
		t.Error("article should get a generated ID")
	}
}

func TestCreateArticleValidation(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *services.CreateArticleRequest
	}{
		{name: "missing title", req: &services.CreateArticleRequest{Content: "body"}},
		{name: "missing content", req: &services.CreateArticleRequest{Title: "t"}},
		{
			name: "negative weight",
			req: &services.CreateArticleRequest{
				Title: "t", Content: "c", WeightScore: floatPtr(-0.5),
			},
		},
		{
			name: "weight above maximum",
			req: &services.CreateArticleRequest{
				Title: "t", Content: "c", WeightScore: floatPtr(10.5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := articleSvc.CreateArticle(ctx, tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("CreateArticle() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateArticleAcceptsWholeWeightRange(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)
	ctx := context.Background()

	for _, w := range []float64{0.0, 0.05, models.MaxWeightScore} {
		article, err := articleSvc.CreateArticle(ctx, &services.CreateArticleRequest{
			Title: "t", Content: "c", WeightScore: floatPtr(w),
		})
		if err != nil {
			t.Fatalf("CreateArticle(weight=%v) error = %v", w, err)
		}
		if article.WeightScore != w {
			t.Errorf("weight = %v, want %v", article.WeightScore, w)
		}
	}
}

func TestUpdateArticleRejectsEmptyPatch(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "T")

	_, err := articleSvc.UpdateArticle(context.Background(), article.ID, &services.UpdateArticleRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty patch: error = %v, want ErrValidation", err)
	}
}

func TestUpdateArticleRetriesVersionConflict(t *testing.T) {
	articleSvc, _, _, revRepo := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Raced")
	ctx := context.Background()

	// A concurrent writer takes the allocated version number once; the
	// caller must not see the conflict.
	revRepo.insertConflicts = 1

	newTitle := "Raced and retried"
	updated, err := articleSvc.UpdateArticle(ctx, article.ID, &services.UpdateArticleRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateArticle() error = %v, want success after retry", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}

	revs, _ := revRepo.ListByArticle(ctx, article.ID)
	if len(revs) != 2 {
		t.Fatalf("expected 2 revisions after retried update, got %d", len(revs))
	}
	if revs[0].VersionNumber != 2 || revs[0].IsDraft || revs[0].Title != newTitle {
		t.Errorf("retried snapshot = %+v, want published version 2", revs[0])
	}
}

func TestUpdateArticleGivesUpAfterRepeatedConflicts(t *testing.T) {
	articleSvc, _, _, revRepo := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Unlucky")
	ctx := context.Background()

	revRepo.insertConflicts = 100

	newTitle := "never lands"
	_, err := articleSvc.UpdateArticle(ctx, article.ID, &services.UpdateArticleRequest{Title: &newTitle})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict after retry budget", err)
	}
	if consumed := 100 - revRepo.insertConflicts; consumed != snapshotRetries {
		t.Errorf("insert attempts = %d, want %d", consumed, snapshotRetries)
	}

	revs, _ := revRepo.ListByArticle(ctx, article.ID)
	if len(revs) != 1 {
		t.Errorf("failed update must not leave partial revisions, got %d", len(revs))
	}
}

func TestRecordVoteAdjustsWeight(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Votable")
	ctx := context.Background()

	voted, err := articleSvc.RecordVote(ctx, article.ID, true)
	if err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}
	if voted.HelpfulVotes != 1 {
		t.Errorf("helpful votes = %d, want 1", voted.HelpfulVotes)
	}
	want := models.AdjustedWeight(article.WeightScore, true)
	if voted.WeightScore != want {
		t.Errorf("weight after helpful vote = %v, want %v", voted.WeightScore, want)
	}

	voted, err = articleSvc.RecordVote(ctx, article.ID, false)
	if err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}
	if voted.UnhelpfulVotes != 1 {
		t.Errorf("unhelpful votes = %d, want 1", voted.UnhelpfulVotes)
	}
}

func TestVoteDoesNotSnapshot(t *testing.T) {
	articleSvc, revisionSvc, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Votable")
	ctx := context.Background()

	if _, err := articleSvc.RecordVote(ctx, article.ID, true); err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}

	revs, _ := revisionSvc.ListVersions(ctx, article.ID)
	if len(revs) != 1 {
		t.Errorf("voting must not create revisions, got %d", len(revs))
	}
}

func TestDeleteArticleKeepsHistory(t *testing.T) {
	articleSvc, _, _, revRepo := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Doomed")
	ctx := context.Background()

	if err := articleSvc.DeleteArticle(ctx, article.ID); err != nil {
		t.Fatalf("DeleteArticle() error = %v", err)
	}

	if _, err := articleSvc.GetArticle(ctx, article.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted article still readable: %v", err)
	}
	revs, _ := revRepo.ListByArticle(ctx, article.ID)
	if len(revs) != 1 {
		t.Errorf("soft delete must keep revision history, got %d revisions", len(revs))
	}
}

func TestSetAndClearNotes(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)
	article := createArticle(t, articleSvc, "Noted")
	ctx := context.Background()

	notes := "internal remark"
	if err := articleSvc.SetNotes(ctx, article.ID, &notes); err != nil {
		t.Fatalf("SetNotes() error = %v", err)
	}
	got, err := articleSvc.GetNotes(ctx, article.ID)
	if err != nil || got == nil || *got != notes {
		t.Fatalf("GetNotes() = %v, %v; want %q", got, err, notes)
	}

	if err := articleSvc.SetNotes(ctx, article.ID, nil); err != nil {
		t.Fatalf("SetNotes(nil) error = %v", err)
	}
	got, _ = articleSvc.GetNotes(ctx, article.ID)
	if got != nil {
		t.Errorf("notes not cleared: %v", *got)
	}
}

func TestImportCollectsPerItemErrors(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)

	result, err := articleSvc.ImportArticles(context.Background(), []services.CreateArticleRequest{
		{Title: "Good one", Content: "body"},
		{Title: "", Content: "missing title"},
		{Title: "Another good one", Content: "body"},
	})
	if err != nil {
		t.Fatalf("ImportArticles() error = %v", err)
	}

	if result.Imported != 2 || result.Failed != 1 {
		t.Errorf("import result = %+v, want 2 imported / 1 failed", result)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected one collected error, got %v", result.Errors)
	}
}

func TestImportRejectsEmptyBatch(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)

	if _, err := articleSvc.ImportArticles(context.Background(), nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty import: error = %v, want ErrValidation", err)
	}
}

func TestWipeAllReportsCount(t *testing.T) {
	articleSvc, _, _, _ := newRevisionFixture(t)
	createArticle(t, articleSvc, "one")
	createArticle(t, articleSvc, "two")

	count, err := articleSvc.WipeAll(context.Background())
	if err != nil {
		t.Fatalf("WipeAll() error = %v", err)
	}
	if count != 2 {
		t.Errorf("WipeAll() = %d, want 2", count)
	}
}

func floatPtr(f float64) *float64 { return &f }
