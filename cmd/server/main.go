package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"kbase/internal/auth"
	"kbase/internal/config"
	"kbase/internal/handler"
	"kbase/internal/middleware"
	"kbase/internal/repository/postgres"
	"kbase/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	articleRepo := postgres.NewArticleRepository(repoConfig)
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	taxonomyRepo := postgres.NewTaxonomyRepository(repoConfig)
	fieldRepo := postgres.NewFieldRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	articleService := service.NewArticleService(articleRepo, revisionRepo, txManager, logger)
	revisionService := service.NewRevisionService(articleRepo, revisionRepo, txManager, logger)
	searchService := service.NewSearchService(articleRepo, logger)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, articleRepo, logger)
	fieldService := service.NewFieldService(fieldRepo, articleRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	// Create handlers
	articleHandler := handler.NewArticleHandler(articleService, logger)
	revisionHandler := handler.NewRevisionHandler(revisionService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService, logger)
	fieldHandler := handler.NewFieldHandler(fieldService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	adminHandler := handler.NewAdminHandler(articleService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Article routes
	mux.HandleFunc("GET /api/articles", articleHandler.ListArticles)
	mux.HandleFunc("POST /api/articles", articleHandler.CreateArticle)
	mux.HandleFunc("GET /api/articles/{id}", articleHandler.GetArticle)
	mux.HandleFunc("PATCH /api/articles/{id}", articleHandler.UpdateArticle)
	mux.HandleFunc("DELETE /api/articles/{id}", articleHandler.DeleteArticle)
	mux.HandleFunc("POST /api/articles/{id}/vote", articleHandler.VoteArticle)
	mux.HandleFunc("POST /api/articles/{id}/view", articleHandler.ViewArticle)
	mux.HandleFunc("GET /api/articles/{id}/notes", articleHandler.GetNotes)
	mux.HandleFunc("PUT /api/articles/{id}/notes", articleHandler.SetNotes)

	// Revision routes
	mux.HandleFunc("GET /api/articles/{id}/versions", revisionHandler.ListVersions)
	mux.HandleFunc("POST /api/articles/{id}/versions", revisionHandler.CreateDraft)
	mux.HandleFunc("PATCH /api/articles/{id}/versions/{version}", revisionHandler.UpdateDraft)
	mux.HandleFunc("POST /api/articles/{id}/versions/{version}/publish", revisionHandler.PublishDraft)
	mux.HandleFunc("POST /api/articles/{id}/versions/{version}/rollback", revisionHandler.Rollback)

	// Search route
	mux.HandleFunc("GET /api/search", searchHandler.Search)

	// Taxonomy routes; {kind} is platforms or products
	mux.HandleFunc("GET /api/{kind}", taxonomyHandler.ListLabels)
	mux.HandleFunc("POST /api/{kind}", taxonomyHandler.CreateLabel)
	mux.HandleFunc("GET /api/{kind}/{id}", taxonomyHandler.GetLabel)
	mux.HandleFunc("PATCH /api/{kind}/{id}", taxonomyHandler.UpdateLabel)
	mux.HandleFunc("DELETE /api/{kind}/{id}", taxonomyHandler.DeleteLabel)
	mux.HandleFunc("GET /api/articles/{id}/labels/{kind}", taxonomyHandler.ListArticleLabels)
	mux.HandleFunc("PUT /api/articles/{id}/labels/{kind}", taxonomyHandler.SetArticleLabels)

	// Dynamic field routes
	mux.HandleFunc("GET /api/fields", fieldHandler.ListFields)
	mux.HandleFunc("POST /api/fields", fieldHandler.CreateField)
	mux.HandleFunc("GET /api/fields/{id}", fieldHandler.GetField)
	mux.HandleFunc("PATCH /api/fields/{id}", fieldHandler.UpdateField)
	mux.HandleFunc("DELETE /api/fields/{id}", fieldHandler.DeleteField)
	mux.HandleFunc("GET /api/articles/{id}/fields", fieldHandler.ListArticleValues)
	mux.HandleFunc("PUT /api/articles/{id}/fields", fieldHandler.SetArticleValues)
	mux.HandleFunc("DELETE /api/articles/{id}/fields/{fieldId}", fieldHandler.DeleteArticleValue)

	// User routes
	mux.HandleFunc("GET /api/users/me", userHandler.Me)
	mux.HandleFunc("GET /api/users", userHandler.ListUsers)
	mux.HandleFunc("GET /api/users/{id}", userHandler.GetUser)
	mux.HandleFunc("PUT /api/users/{id}/role", userHandler.UpdateRole)
	mux.HandleFunc("PUT /api/users/{id}/capabilities", userHandler.UpdateCapabilities)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.DeactivateUser)

	// Admin routes
	mux.HandleFunc("POST /api/admin/import", adminHandler.ImportArticles)
	mux.HandleFunc("POST /api/admin/wipe", adminHandler.WipeArticles)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier, userService, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
