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

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user permission repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const userColumns = `id, user_id, username, email, role, is_active,
		can_view_private, can_create_articles, can_edit_articles, can_delete_articles,
		can_manage_users, can_view_analytics,
		last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.UserPermissions, error) {
	var u models.UserPermissions
	err := row.Scan(
		&u.ID,
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.IsActive,
		&u.Capabilities.ViewPrivate,
		&u.Capabilities.CreateArticles,
		&u.Capabilities.EditArticles,
		&u.Capabilities.DeleteArticles,
		&u.Capabilities.ManageUsers,
		&u.Capabilities.ViewAnalytics,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUserID retrieves an active user's permissions by external ID
func (r *PostgresUserRepository) GetByUserID(ctx context.Context, userID string) (*models.UserPermissions, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE user_id = $1 AND is_active = TRUE
	`, userColumns, r.tables.UserPermissions)

	executor := GetExecutor(ctx, r.pool)
	u, err := scanUser(executor.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, mapPgError(err, "get user", "user "+userID)
	}

	return u, nil
}

// Create inserts a new permission row
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.UserPermissions) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, username, email, role, is_active,
			can_view_private, can_create_articles, can_edit_articles, can_delete_articles,
			can_manage_users, can_view_analytics,
			last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, r.tables.UserPermissions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		user.ID,
		user.UserID,
		user.Username,
		user.Email,
		user.Role,
		user.IsActive,
		user.Capabilities.ViewPrivate,
		user.Capabilities.CreateArticles,
		user.Capabilities.EditArticles,
		user.Capabilities.DeleteArticles,
		user.Capabilities.ManageUsers,
		user.Capabilities.ViewAnalytics,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "create user", "user "+user.UserID)
	}

	return nil
}

// TouchLogin updates cached profile fields and last_login
func (r *PostgresUserRepository) TouchLogin(ctx context.Context, userID, username, email string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET username = $1, email = $2, last_login = NOW(), updated_at = NOW()
		WHERE user_id = $3
	`, r.tables.UserPermissions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, username, email, userID)
	if err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

// List returns a page of active users plus the total count
func (r *PostgresUserRepository) List(ctx context.Context, offset, limit int) ([]models.UserPermissions, int, error) {
	executor := GetExecutor(ctx, r.pool)

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE is_active = TRUE
	`, r.tables.UserPermissions)

	var total int
	if err := executor.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE is_active = TRUE
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, userColumns, r.tables.UserPermissions)

	rows, err := executor.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.UserPermissions
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	if users == nil {
		users = []models.UserPermissions{}
	}

	return users, total, nil
}

// UpdateRole sets the role and the full capability set
func (r *PostgresUserRepository) UpdateRole(ctx context.Context, userID string, role models.Role, caps models.Capabilities) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET role = $1,
			can_view_private = $2, can_create_articles = $3, can_edit_articles = $4,
			can_delete_articles = $5, can_manage_users = $6, can_view_analytics = $7,
			updated_at = NOW()
		WHERE user_id = $8
	`, r.tables.UserPermissions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		role,
		caps.ViewPrivate, caps.CreateArticles, caps.EditArticles,
		caps.DeleteArticles, caps.ManageUsers, caps.ViewAnalytics,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

// UpdateCapabilities sets the capability set only
func (r *PostgresUserRepository) UpdateCapabilities(ctx context.Context, userID string, caps models.Capabilities) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET can_view_private = $1, can_create_articles = $2, can_edit_articles = $3,
			can_delete_articles = $4, can_manage_users = $5, can_view_analytics = $6,
			updated_at = NOW()
		WHERE user_id = $7
	`, r.tables.UserPermissions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		caps.ViewPrivate, caps.CreateArticles, caps.EditArticles,
		caps.DeleteArticles, caps.ManageUsers, caps.ViewAnalytics,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update capabilities: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

// Deactivate soft-deletes a user
func (r *PostgresUserRepository) Deactivate(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1
	`, r.tables.UserPermissions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}
