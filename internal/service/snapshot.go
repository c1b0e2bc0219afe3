package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
)

// snapshotRetries bounds how often a snapshot write is retried when a
// concurrent writer races the version allocation past the advisory
// lock (for example across pools that do not share the lock space).
const snapshotRetries = 3

// snapshotArticle allocates the next version number for the article and
// inserts a snapshot of its current editable fields. Must run inside a
// transaction so the advisory lock taken by NextVersionNumber holds
// until commit.
func snapshotArticle(ctx context.Context, revRepo repositories.RevisionRepository, article *models.Article, draft bool, now time.Time) (*models.Revision, error) {
	version, err := revRepo.NextVersionNumber(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	rev := models.SnapshotOf(article, uuid.New().String(), version, draft, now)
	if err := revRepo.Insert(ctx, rev); err != nil {
		return nil, err
	}

	return rev, nil
}

// withSnapshotRetry runs fn, retrying a bounded number of times when it
// fails with a version-number conflict. fn must be safe to re-run.
func withSnapshotRetry(ctx context.Context, txManager repositories.TransactionManager, fn repositories.TxFn) error {
	var err error
	for attempt := 0; attempt < snapshotRetries; attempt++ {
		err = txManager.ExecTx(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
