package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
)

const labelColumns = `id, name, slug, description, is_active, created_at, updated_at`

// PostgresTaxonomyRepository implements the TaxonomyRepository interface
// for both label kinds; the kind selects the table pair.
type PostgresTaxonomyRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTaxonomyRepository creates a new taxonomy repository
func NewTaxonomyRepository(config *RepositoryConfig) repositories.TaxonomyRepository {
	return &PostgresTaxonomyRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanLabel(row pgx.Row) (*models.Label, error) {
	var l models.Label
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Slug,
		&l.Description,
		&l.IsActive,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLabel inserts a new label
func (r *PostgresTaxonomyRepository) CreateLabel(ctx context.Context, kind models.LabelKind, label *models.Label) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, slug, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Label(kind))

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		label.ID,
		label.Name,
		label.Slug,
		label.Description,
		label.IsActive,
		label.CreatedAt,
		label.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("create %s", kind), fmt.Sprintf("%s '%s'", kind, label.Name))
	}

	return nil
}

// GetLabel retrieves a label by ID
func (r *PostgresTaxonomyRepository) GetLabel(ctx context.Context, kind models.LabelKind, id string) (*models.Label, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, labelColumns, r.tables.Label(kind))

	executor := GetExecutor(ctx, r.pool)
	label, err := scanLabel(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("get %s", kind), fmt.Sprintf("%s %s", kind, id))
	}

	return label, nil
}

// ListLabels returns labels ordered by name
func (r *PostgresTaxonomyRepository) ListLabels(ctx context.Context, kind models.LabelKind, includeInactive bool) ([]models.Label, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, labelColumns, r.tables.Label(kind))
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	defer rows.Close()

	return collectLabels(rows, kind)
}

func collectLabels(rows pgx.Rows, kind models.LabelKind) ([]models.Label, error) {
	var labels []models.Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		labels = append(labels, *label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %ss: %w", kind, err)
	}
	if labels == nil {
		labels = []models.Label{}
	}
	return labels, nil
}

// UpdateLabel writes a label's editable fields
func (r *PostgresTaxonomyRepository) UpdateLabel(ctx context.Context, kind models.LabelKind, label *models.Label) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, slug = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, r.tables.Label(kind))

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		label.Name,
		label.Slug,
		label.Description,
		label.IsActive,
		label.ID,
	).Scan(&label.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("%s %s: %w", kind, label.ID, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return fmt.Errorf("%s '%s': %w", kind, label.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update %s: %w", kind, err)
	}

	return nil
}

// DeleteLabel soft-deletes a label, or hard-deletes it together with
// its article associations
func (r *PostgresTaxonomyRepository) DeleteLabel(ctx context.Context, kind models.LabelKind, id string, hard bool) error {
	executor := GetExecutor(ctx, r.pool)

	if hard {
		linkQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			r.tables.LabelLink(kind), r.tables.LabelLinkColumn(kind))
		if _, err := executor.Exec(ctx, linkQuery, id); err != nil {
			return fmt.Errorf("delete %s links: %w", kind, err)
		}

		result, err := executor.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Label(kind)), id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", kind, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
		}
		return nil
	}

	result, err := executor.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, r.tables.Label(kind)), id)
	if err != nil {
		return fmt.Errorf("deactivate %s: %w", kind, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}

	return nil
}

// ListArticleLabels returns the labels associated with an article
func (r *PostgresTaxonomyRepository) ListArticleLabels(ctx context.Context, kind models.LabelKind, articleID string) ([]models.Label, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s l
		JOIN %s ln ON ln.%s = l.id
		WHERE ln.article_id = $1
		ORDER BY l.name ASC
	`, qualifyColumns("l", labelColumns), r.tables.Label(kind), r.tables.LabelLink(kind), r.tables.LabelLinkColumn(kind))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list article %ss: %w", kind, err)
	}
	defer rows.Close()

	return collectLabels(rows, kind)
}

// SetArticleLabels replaces an article's association set: links not in
// labelIDs are removed, missing ones are added. Runs as two statements;
// callers wanting atomicity wrap it in ExecTx.
func (r *PostgresTaxonomyRepository) SetArticleLabels(ctx context.Context, kind models.LabelKind, articleID string, labelIDs []string) error {
	executor := GetExecutor(ctx, r.pool)
	linkTable := r.tables.LabelLink(kind)
	linkColumn := r.tables.LabelLinkColumn(kind)

	removeQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE article_id = $1 AND NOT (%s = ANY($2))
	`, linkTable, linkColumn)
	if _, err := executor.Exec(ctx, removeQuery, articleID, labelIDs); err != nil {
		return fmt.Errorf("remove %s links: %w", kind, err)
	}

	addQuery := fmt.Sprintf(`
		INSERT INTO %s (article_id, %s)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`, linkTable, linkColumn)
	if _, err := executor.Exec(ctx, addQuery, articleID, labelIDs); err != nil {
		return mapPgError(err, fmt.Sprintf("add %s links", kind), fmt.Sprintf("article or %s", kind))
	}

	return nil
}
