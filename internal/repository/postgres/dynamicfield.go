package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
)

// PostgresFieldRepository implements the FieldRepository interface
type PostgresFieldRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFieldRepository creates a new dynamic field repository
func NewFieldRepository(config *RepositoryConfig) repositories.FieldRepository {
	return &PostgresFieldRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const fieldColumns = `id, name, label, field_type, is_required, is_active, sort_order,
		placeholder, help_text, created_at, updated_at`

// CreateField inserts a field definition with its options
func (r *PostgresFieldRepository) CreateField(ctx context.Context, field *models.DynamicField) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, label, field_type, is_required, is_active, sort_order,
			placeholder, help_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.DynamicFields)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		field.ID,
		field.Name,
		field.Label,
		field.FieldType,
		field.IsRequired,
		field.IsActive,
		field.SortOrder,
		field.Placeholder,
		field.HelpText,
		field.CreatedAt,
		field.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "create field", fmt.Sprintf("field '%s'", field.Name))
	}

	return r.insertOptions(ctx, field.ID, field.Options)
}

func (r *PostgresFieldRepository) insertOptions(ctx context.Context, fieldID string, options []models.FieldOption) error {
	if len(options) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, field_id, value, label, sort_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.DynamicFieldOptions)

	executor := GetExecutor(ctx, r.pool)
	for _, opt := range options {
		_, err := executor.Exec(ctx, query,
			opt.ID, fieldID, opt.Value, opt.Label, opt.SortOrder, opt.IsActive, opt.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert field option '%s': %w", opt.Value, err)
		}
	}
	return nil
}

// GetField retrieves a field with its options
func (r *PostgresFieldRepository) GetField(ctx context.Context, id string) (*models.DynamicField, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fieldColumns, r.tables.DynamicFields)

	executor := GetExecutor(ctx, r.pool)
	var f models.DynamicField
	err := executor.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Label, &f.FieldType, &f.IsRequired, &f.IsActive,
		&f.SortOrder, &f.Placeholder, &f.HelpText, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "get field", "field "+id)
	}

	options, err := r.listOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Options = options

	return &f, nil
}

func (r *PostgresFieldRepository) listOptions(ctx context.Context, fieldID string) ([]models.FieldOption, error) {
	query := fmt.Sprintf(`
		SELECT id, field_id, value, label, sort_order, is_active, created_at
		FROM %s
		WHERE field_id = $1 AND is_active = TRUE
		ORDER BY sort_order ASC, value ASC
	`, r.tables.DynamicFieldOptions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list field options: %w", err)
	}
	defer rows.Close()

	var options []models.FieldOption
	for rows.Next() {
		var opt models.FieldOption
		if err := rows.Scan(&opt.ID, &opt.FieldID, &opt.Value, &opt.Label,
			&opt.SortOrder, &opt.IsActive, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan field option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field options: %w", err)
	}

	return options, nil
}

// ListFields returns fields ordered by sort order then name
func (r *PostgresFieldRepository) ListFields(ctx context.Context, includeInactive bool) ([]models.DynamicField, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, fieldColumns, r.tables.DynamicFields)
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var fields []models.DynamicField
	for rows.Next() {
		var f models.DynamicField
		if err := rows.Scan(&f.ID, &f.Name, &f.Label, &f.FieldType, &f.IsRequired,
			&f.IsActive, &f.SortOrder, &f.Placeholder, &f.HelpText,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fields: %w", err)
	}
	if fields == nil {
		fields = []models.DynamicField{}
	}

	// Attach options for select-ish fields
	for i := range fields {
		if !fields[i].FieldType.HasOptions() {
			continue
		}
		options, err := r.listOptions(ctx, fields[i].ID)
		if err != nil {
			return nil, err
		}
		fields[i].Options = options
	}

	return fields, nil
}

// UpdateField writes a field's properties; when replaceOptions is set
// the option rows are replaced wholesale.
func (r *PostgresFieldRepository) UpdateField(ctx context.Context, field *models.DynamicField, replaceOptions bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET label = $1, is_required = $2, is_active = $3, sort_order = $4,
			placeholder = $5, help_text = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, r.tables.DynamicFields)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		field.Label,
		field.IsRequired,
		field.IsActive,
		field.SortOrder,
		field.Placeholder,
		field.HelpText,
		field.ID,
	).Scan(&field.UpdatedAt)
	if err != nil {
		return mapPgError(err, "update field", "field "+field.ID)
	}

	if replaceOptions {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE field_id = $1`, r.tables.DynamicFieldOptions)
		if _, err := executor.Exec(ctx, deleteQuery, field.ID); err != nil {
			return fmt.Errorf("clear field options: %w", err)
		}
		if err := r.insertOptions(ctx, field.ID, field.Options); err != nil {
			return err
		}
	}

	return nil
}

// DeleteField soft-deletes a field, or hard-deletes it with its options
// and values
func (r *PostgresFieldRepository) DeleteField(ctx context.Context, id string, hard bool) error {
	executor := GetExecutor(ctx, r.pool)

	if hard {
		valuesQuery := fmt.Sprintf(`DELETE FROM %s WHERE field_id = $1`, r.tables.ArticleFieldValues)
		if _, err := executor.Exec(ctx, valuesQuery, id); err != nil {
			return fmt.Errorf("delete field values: %w", err)
		}
		optionsQuery := fmt.Sprintf(`DELETE FROM %s WHERE field_id = $1`, r.tables.DynamicFieldOptions)
		if _, err := executor.Exec(ctx, optionsQuery, id); err != nil {
			return fmt.Errorf("delete field options: %w", err)
		}
		result, err := executor.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.DynamicFields), id)
		if err != nil {
			return fmt.Errorf("delete field: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("field %s: %w", id, domain.ErrNotFound)
		}
		return nil
	}

	result, err := executor.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, r.tables.DynamicFields), id)
	if err != nil {
		return fmt.Errorf("deactivate field: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("field %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListValues returns the values of active fields for an article
func (r *PostgresFieldRepository) ListValues(ctx context.Context, articleID string) ([]models.FieldValue, error) {
	query := fmt.Sprintf(`
		SELECT v.id, v.article_id, v.field_id, v.value, v.created_at, v.updated_at
		FROM %s v
		JOIN %s f ON f.id = v.field_id
		WHERE v.article_id = $1 AND f.is_active = TRUE
		ORDER BY f.sort_order ASC, f.name ASC
	`, r.tables.ArticleFieldValues, r.tables.DynamicFields)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list field values: %w", err)
	}
	defer rows.Close()

	var values []models.FieldValue
	for rows.Next() {
		var v models.FieldValue
		if err := rows.Scan(&v.ID, &v.ArticleID, &v.FieldID, &v.Value,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan field value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field values: %w", err)
	}
	if values == nil {
		values = []models.FieldValue{}
	}

	return values, nil
}

// SetValue upserts one field value for an article
func (r *PostgresFieldRepository) SetValue(ctx context.Context, articleID, fieldID, value string) (*models.FieldValue, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, article_id, field_id, value, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
		ON CONFLICT (article_id, field_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING id, article_id, field_id, value, created_at, updated_at
	`, r.tables.ArticleFieldValues)

	executor := GetExecutor(ctx, r.pool)
	var v models.FieldValue
	err := executor.QueryRow(ctx, query, articleID, fieldID, value).Scan(
		&v.ID, &v.ArticleID, &v.FieldID, &v.Value, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "set field value", fmt.Sprintf("article %s or field %s", articleID, fieldID))
	}

	return &v, nil
}

// DeleteValue removes one field value for an article
func (r *PostgresFieldRepository) DeleteValue(ctx context.Context, articleID, fieldID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE article_id = $1 AND field_id = $2
	`, r.tables.ArticleFieldValues)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, articleID, fieldID)
	if err != nil {
		return fmt.Errorf("delete field value: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("field value %s/%s: %w", articleID, fieldID, domain.ErrNotFound)
	}

	return nil
}
