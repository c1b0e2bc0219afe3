package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
)

// articleColumns is the full column list scanned into models.Article.
const articleColumns = `id, title, content, tags, weight_score, is_active, is_public,
		view_count, helpful_votes, unhelpful_votes, notes, created_at, updated_at`

// PostgresArticleRepository implements the ArticleRepository interface
type PostgresArticleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.Tags,
		&a.WeightScore,
		&a.IsActive,
		&a.IsPublic,
		&a.ViewCount,
		&a.HelpfulVotes,
		&a.UnhelpfulVotes,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new article row
func (r *PostgresArticleRepository) Create(ctx context.Context, article *models.Article) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, tags, weight_score, is_active, is_public,
			view_count, helpful_votes, unhelpful_votes, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.Tags,
		article.WeightScore,
		article.IsActive,
		article.IsPublic,
		article.ViewCount,
		article.HelpfulVotes,
		article.UnhelpfulVotes,
		article.Notes,
		article.CreatedAt,
		article.UpdatedAt,
	).Scan(&article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		return mapPgError(err, "create article", "article "+article.ID)
	}

	return nil
}

// GetByID retrieves an active article by ID
func (r *PostgresArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND is_active = TRUE
	`, articleColumns, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	article, err := scanArticle(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err, "get article", "article "+id)
	}

	return article, nil
}

// List returns a page of active articles plus the total count
func (r *PostgresArticleRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.Article, int, error) {
	where := "is_active = TRUE"
	if opts.PublicOnly {
		where += " AND is_public = TRUE"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, articleColumns, r.tables.Articles, where, listOrderClause(opts))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, r.tables.Articles, where)
	var total int
	if err := executor.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	return articles, total, nil
}

// listOrderClause builds the ORDER BY columns for a listing. SortBy and
// Order come from a validated closed set, never from raw input. Weight
// scores cluster around a handful of values, so weight ordering breaks
// ties on recency.
func listOrderClause(opts *models.ListOptions) string {
	direction := "DESC"
	if opts.Order == models.SortAsc {
		direction = "ASC"
	}
	clause := string(opts.SortBy) + " " + direction
	if opts.SortBy == models.SortByWeightScore {
		clause += ", updated_at DESC"
	}
	return clause
}

func collectArticles(rows pgx.Rows) ([]models.Article, error) {
	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

// Update writes the article's editable fields and bumps updated_at
func (r *PostgresArticleRepository) Update(ctx context.Context, article *models.Article) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, tags = $3, weight_score = $4, is_public = $5,
			updated_at = NOW()
		WHERE id = $6 AND is_active = TRUE
		RETURNING updated_at
	`, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Tags,
		article.WeightScore,
		article.IsPublic,
		article.ID,
	).Scan(&article.UpdatedAt)

	if err != nil {
		return mapPgError(err, "update article", "article "+article.ID)
	}

	return nil
}

// SetNotes sets or clears the free-form notes of an article
func (r *PostgresArticleRepository) SetNotes(ctx context.Context, id string, notes *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET notes = $1, updated_at = NOW()
		WHERE id = $2 AND is_active = TRUE
	`, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, notes, id)
	if err != nil {
		return fmt.Errorf("set article notes: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete deactivates an article; revision history is kept
func (r *PostgresArticleRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementViewCount bumps the view counter
func (r *PostgresArticleRepository) IncrementViewCount(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET view_count = view_count + 1
		WHERE id = $1 AND is_active = TRUE
	`, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ApplyVote increments the vote counter and adjusts the weight score in
// a single statement, clamped to [0.1, 10.0].
func (r *PostgresArticleRepository) ApplyVote(ctx context.Context, id string, helpful bool) (*models.Article, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET helpful_votes = helpful_votes + CASE WHEN $2 THEN 1 ELSE 0 END,
			unhelpful_votes = unhelpful_votes + CASE WHEN $2 THEN 0 ELSE 1 END,
			weight_score = CASE WHEN $2
				THEN LEAST($3::float8, weight_score + $4)
				ELSE GREATEST($5::float8, weight_score - $6)
			END,
			updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
		RETURNING %s
	`, r.tables.Articles, articleColumns)

	executor := GetExecutor(ctx, r.pool)
	article, err := scanArticle(executor.QueryRow(ctx, query,
		id,
		helpful,
		models.MaxWeightScore,
		models.HelpfulVoteStep,
		models.VoteWeightFloor,
		models.UnhelpfulVoteStep,
	))
	if err != nil {
		return nil, mapPgError(err, "apply vote", "article "+id)
	}

	return article, nil
}

// DeleteAll removes every article row. Versions, label links and field
// values go with them via ON DELETE CASCADE.
func (r *PostgresArticleRepository) DeleteAll(ctx context.Context) (int64, error) {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, r.tables.Articles))
	if err != nil {
		return 0, fmt.Errorf("wipe articles: %w", err)
	}
	return result.RowsAffected(), nil
}

// Search evaluates parsed query terms against active articles. Matching
// is case-insensitive substring over title, content, the tag collection
// and associated platform/product names. Required terms AND, optional
// terms OR (only when no required terms exist), excluded terms NOT.
func (r *PostgresArticleRepository) Search(ctx context.Context, query *models.ParsedQuery, opts *models.SearchOptions) ([]models.Article, error) {
	sql, args := buildSearchQuery(r.tables, query, opts)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// buildSearchQuery assembles the search statement. Split out for
// testability; it owns the whole combination policy.
func buildSearchQuery(tables *TableNames, query *models.ParsedQuery, opts *models.SearchOptions) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	conds = append(conds, "is_active = TRUE")
	if opts.PublicOnly {
		conds = append(conds, "is_public = TRUE")
	}

	// termMatch appends the pattern argument and returns the per-term
	// match condition across all searched fields.
	termMatch := func(term string) string {
		args = append(args, "%"+term+"%")
		p := len(args)
		return fmt.Sprintf(`(a.title ILIKE $%[1]d
			OR a.content ILIKE $%[1]d
			OR a.tags::text ILIKE $%[1]d
			OR EXISTS (
				SELECT 1 FROM %[2]s ln JOIN %[3]s l ON l.id = ln.platform_id
				WHERE ln.article_id = a.id AND l.name ILIKE $%[1]d
			)
			OR EXISTS (
				SELECT 1 FROM %[4]s ln JOIN %[5]s l ON l.id = ln.product_id
				WHERE ln.article_id = a.id AND l.name ILIKE $%[1]d
			))`,
			p, tables.ArticlePlatforms, tables.Platforms, tables.ArticleProducts, tables.Products)
	}

	// Required: every term must match somewhere
	for _, term := range query.Required {
		conds = append(conds, termMatch(term))
	}

	// Optional: at least one must match, but only when no required
	// terms narrow the set already. With required terms present,
	// optional terms do not filter.
	if len(query.Optional) > 0 && len(query.Required) == 0 {
		var any []string
		for _, term := range query.Optional {
			any = append(any, termMatch(term))
		}
		conds = append(conds, "("+strings.Join(any, " OR ")+")")
	}

	// Excluded: none may match, applied last
	for _, term := range query.Excluded {
		conds = append(conds, "NOT "+termMatch(term))
	}

	args = append(args, opts.Limit)

	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s a
		WHERE %s
		ORDER BY weight_score DESC, updated_at DESC
		LIMIT $%d
	`, qualifyColumns("a", articleColumns), tables.Articles, strings.Join(conds, "\n		  AND "), len(args))

	return sql, args
}

// qualifyColumns prefixes each column in a comma-separated list with a
// table alias.
func qualifyColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
