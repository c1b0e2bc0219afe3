package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"kbase/internal/config"
	"kbase/internal/domain/services"
	"kbase/internal/repository/postgres"
	"kbase/internal/service"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed articles (for use with shell scripts)")
	clearData := flag.Bool("clear-data", false, "Clear all articles and revisions (keep schema)")
	fixtures := flag.String("fixtures", "", "Path to a YAML fixture file (defaults to built-in sample articles)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing articles and revisions...")
		if err := clearArticleData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	articleRepo := postgres.NewArticleRepository(repoConfig)
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)
	articleService := service.NewArticleService(articleRepo, revisionRepo, txManager, logger)

	// Clear existing data so seeding is idempotent
	log.Println("⚠️  Clearing existing articles and revisions...")
	if err := clearArticleData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	articles, err := loadFixtures(*fixtures)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	log.Printf("📝 Seeding %d articles...", len(articles))
	for i, fixture := range articles {
		req := fixture.toRequest()
		article, err := articleService.CreateArticle(ctx, req)
		if err != nil {
			log.Printf("❌ Failed to create article '%s': %v", fixture.Title, err)
			continue
		}
		log.Printf("✅ Created article %d/%d: %s (ID: %s)", i+1, len(articles), article.Title, article.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\""); err != nil {
		return err
	}

	createArticles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Articles + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			weight_score DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			view_count INTEGER NOT NULL DEFAULT 0,
			helpful_votes INTEGER NOT NULL DEFAULT 0,
			unhelpful_votes INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createArticles); err != nil {
		return err
	}

	createVersions := `
		CREATE TABLE IF NOT EXISTS ` + tables.ArticleVersions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			version_number INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			weight_score DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			is_draft BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			published_at TIMESTAMPTZ,
			UNIQUE(article_id, version_number)
		)
	`
	if _, err := pool.Exec(ctx, createVersions); err != nil {
		return err
	}

	for _, labelTable := range []string{tables.Platforms, tables.Products} {
		createLabel := `
			CREATE TABLE IF NOT EXISTS ` + labelTable + ` (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name TEXT NOT NULL UNIQUE,
				slug TEXT,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW()
			)
		`
		if _, err := pool.Exec(ctx, createLabel); err != nil {
			return err
		}
	}

	createArticlePlatforms := `
		CREATE TABLE IF NOT EXISTS ` + tables.ArticlePlatforms + ` (
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			platform_id UUID NOT NULL REFERENCES ` + tables.Platforms + `(id) ON DELETE CASCADE,
			PRIMARY KEY (article_id, platform_id)
		)
	`
	if _, err := pool.Exec(ctx, createArticlePlatforms); err != nil {
		return err
	}

	createArticleProducts := `
		CREATE TABLE IF NOT EXISTS ` + tables.ArticleProducts + ` (
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES ` + tables.Products + `(id) ON DELETE CASCADE,
			PRIMARY KEY (article_id, product_id)
		)
	`
	if _, err := pool.Exec(ctx, createArticleProducts); err != nil {
		return err
	}

	createFields := `
		CREATE TABLE IF NOT EXISTS ` + tables.DynamicFields + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL UNIQUE,
			label TEXT NOT NULL,
			field_type TEXT NOT NULL,
			is_required BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			sort_order INTEGER NOT NULL DEFAULT 0,
			placeholder TEXT NOT NULL DEFAULT '',
			help_text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFields); err != nil {
		return err
	}

	createFieldOptions := `
		CREATE TABLE IF NOT EXISTS ` + tables.DynamicFieldOptions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			field_id UUID NOT NULL REFERENCES ` + tables.DynamicFields + `(id) ON DELETE CASCADE,
			value TEXT NOT NULL,
			label TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(field_id, value)
		)
	`
	if _, err := pool.Exec(ctx, createFieldOptions); err != nil {
		return err
	}

	createFieldValues := `
		CREATE TABLE IF NOT EXISTS ` + tables.ArticleFieldValues + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			field_id UUID NOT NULL REFERENCES ` + tables.DynamicFields + `(id) ON DELETE CASCADE,
			value TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(article_id, field_id)
		)
	`
	if _, err := pool.Exec(ctx, createFieldValues); err != nil {
		return err
	}

	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.UserPermissions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'viewer',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			can_view_private BOOLEAN NOT NULL DEFAULT FALSE,
			can_create_articles BOOLEAN NOT NULL DEFAULT FALSE,
			can_edit_articles BOOLEAN NOT NULL DEFAULT FALSE,
			can_delete_articles BOOLEAN NOT NULL DEFAULT FALSE,
			can_manage_users BOOLEAN NOT NULL DEFAULT FALSE,
			can_view_analytics BOOLEAN NOT NULL DEFAULT FALSE,
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `articles_active_weight ON ` + tables.Articles + `(is_active, weight_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `articles_updated ON ` + tables.Articles + `(updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `versions_article ON ` + tables.ArticleVersions + `(article_id, version_number DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `field_values_article ON ` + tables.ArticleFieldValues + `(article_id)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.ArticleFieldValues,
		tables.DynamicFieldOptions,
		tables.DynamicFields,
		tables.ArticlePlatforms,
		tables.ArticleProducts,
		tables.Platforms,
		tables.Products,
		tables.ArticleVersions,
		tables.Articles,
		tables.UserPermissions,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearArticleData clears all articles; revisions and associations go
// with them via CASCADE
func clearArticleData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Articles)
	return err
}

// articleFixture is the YAML shape of one seed article
type articleFixture struct {
	Title       string   `yaml:"title"`
	Content     string   `yaml:"content"`
	Tags        []string `yaml:"tags"`
	WeightScore *float64 `yaml:"weight_score"`
	IsPublic    *bool    `yaml:"is_public"`
}

func (f *articleFixture) toRequest() *services.CreateArticleRequest {
	return &services.CreateArticleRequest{
		Title:       f.Title,
		Content:     f.Content,
		Tags:        f.Tags,
		WeightScore: f.WeightScore,
		IsPublic:    f.IsPublic,
	}
}

// loadFixtures reads seed articles from a YAML file, or returns the
// built-in samples when no path is given.
func loadFixtures(path string) ([]articleFixture, error) {
	if path == "" {
		return builtinFixtures(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Articles []articleFixture `yaml:"articles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc.Articles, nil
}

func builtinFixtures() []articleFixture {
	weight := func(w float64) *float64 { return &w }
	private := false

	return []articleFixture{
		{
			Title:   "How to reset your password",
			Content: "Open the login page, click 'Forgot password' and follow the emailed link. The reset link expires after 30 minutes.",
			Tags:    []string{"account", "password", "login"},
		},
		{
			Title:       "Troubleshooting connection timeouts",
			Content:     "Connection timeouts are usually caused by firewall rules or proxy configuration. Check that outbound port 443 is open and retry with the diagnostics tool.",
			Tags:        []string{"network", "timeout", "troubleshooting"},
			WeightScore: weight(2.5),
		},
		{
			Title:   "Exporting your data",
			Content: "Navigate to Settings > Data export and choose a format. Large exports are prepared in the background and emailed as a download link.",
			Tags:    []string{"export", "data", "settings"},
		},
		{
			Title:       "Internal escalation playbook",
			Content:     "Escalate priority-1 incidents to the on-call engineer immediately. Include the customer account ID and a timeline of the issue.",
			Tags:        []string{"internal", "escalation"},
			WeightScore: weight(5.0),
			IsPublic:    &private,
		},
		{
			Title:   "Keyboard shortcuts reference",
			Content: "Press '?' anywhere in the app to open the shortcut overlay. Shortcuts can be remapped under Settings > Accessibility.",
			Tags:    []string{"shortcuts", "productivity"},
		},
	}
}
