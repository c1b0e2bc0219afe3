package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
)

const revisionColumns = `id, article_id, version_number, title, content, tags,
		weight_score, is_public, is_draft, created_at, published_at`

// PostgresRevisionRepository implements the RevisionRepository interface
type PostgresRevisionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(config *RepositoryConfig) repositories.RevisionRepository {
	return &PostgresRevisionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanRevision(row pgx.Row) (*models.Revision, error) {
	var rev models.Revision
	err := row.Scan(
		&rev.ID,
		&rev.ArticleID,
		&rev.VersionNumber,
		&rev.Title,
		&rev.Content,
		&rev.Tags,
		&rev.WeightScore,
		&rev.IsPublic,
		&rev.IsDraft,
		&rev.CreatedAt,
		&rev.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// NextVersionNumber computes max(version_number)+1 for an article while
// holding a per-article advisory lock. The lock is transaction-scoped,
// so this must run inside ExecTx; it serializes concurrent allocators
// for the same article until the surrounding transaction commits.
func (r *PostgresRevisionRepository) NextVersionNumber(ctx context.Context, articleID string) (int, error) {
	executor := GetExecutor(ctx, r.pool)

	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, articleID); err != nil {
		return 0, fmt.Errorf("lock article %s: %w", articleID, err)
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM %s
		WHERE article_id = $1
	`, r.tables.ArticleVersions)

	var next int
	if err := executor.QueryRow(ctx, query, articleID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next version number: %w", err)
	}

	return next, nil
}

// Insert writes a new revision row
func (r *PostgresRevisionRepository) Insert(ctx context.Context, rev *models.Revision) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, article_id, version_number, title, content, tags,
			weight_score, is_public, is_draft, created_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.ArticleVersions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		rev.ID,
		rev.ArticleID,
		rev.VersionNumber,
		rev.Title,
		rev.Content,
		rev.Tags,
		rev.WeightScore,
		rev.IsPublic,
		rev.IsDraft,
		rev.CreatedAt,
		rev.PublishedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			// Version number collision: another writer won the race.
			// The service retries the whole transaction.
			return fmt.Errorf("revision %s v%d: %w", rev.ArticleID, rev.VersionNumber, domain.ErrConflict)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("article %s: %w", rev.ArticleID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert revision: %w", err)
	}

	return nil
}

// GetByVersion retrieves one revision of an article
func (r *PostgresRevisionRepository) GetByVersion(ctx context.Context, articleID string, version int) (*models.Revision, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE article_id = $1 AND version_number = $2
	`, revisionColumns, r.tables.ArticleVersions)

	executor := GetExecutor(ctx, r.pool)
	rev, err := scanRevision(executor.QueryRow(ctx, query, articleID, version))
	if err != nil {
		return nil, mapPgError(err, "get revision", fmt.Sprintf("revision %s v%d", articleID, version))
	}

	return rev, nil
}

// ListByArticle returns all revisions ordered by version number descending
func (r *PostgresRevisionRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE article_id = $1
		ORDER BY version_number DESC
	`, revisionColumns, r.tables.ArticleVersions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	if revisions == nil {
		revisions = []models.Revision{}
	}

	return revisions, nil
}

// UpdateSnapshot overwrites the snapshot fields of a draft revision.
// The draft guard in the WHERE clause keeps published revisions
// immutable even if the service check is bypassed.
func (r *PostgresRevisionRepository) UpdateSnapshot(ctx context.Context, rev *models.Revision) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, tags = $3, weight_score = $4, is_public = $5
		WHERE article_id = $6 AND version_number = $7 AND is_draft = TRUE
	`, r.tables.ArticleVersions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		rev.Title,
		rev.Content,
		rev.Tags,
		rev.WeightScore,
		rev.IsPublic,
		rev.ArticleID,
		rev.VersionNumber,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("draft %s v%d: %w", rev.ArticleID, rev.VersionNumber, domain.ErrNotFound)
	}

	return nil
}

// MarkPublished flips a draft to published and stamps published_at
func (r *PostgresRevisionRepository) MarkPublished(ctx context.Context, articleID string, version int, publishedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_draft = FALSE, published_at = $1
		WHERE article_id = $2 AND version_number = $3 AND is_draft = TRUE
	`, r.tables.ArticleVersions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, publishedAt, articleID, version)
	if err != nil {
		return fmt.Errorf("mark revision published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("draft %s v%d: %w", articleID, version, domain.ErrNotFound)
	}

	return nil
}
