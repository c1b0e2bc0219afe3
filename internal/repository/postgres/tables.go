package postgres

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"kbase/internal/domain/models"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Articles            string
	ArticleVersions     string
	Platforms           string
	Products            string
	ArticlePlatforms    string
	ArticleProducts     string
	DynamicFields       string
	DynamicFieldOptions string
	ArticleFieldValues  string
	UserPermissions     string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Articles:            fmt.Sprintf("%sarticles", prefix),
		ArticleVersions:     fmt.Sprintf("%sarticle_versions", prefix),
		Platforms:           fmt.Sprintf("%splatforms", prefix),
		Products:            fmt.Sprintf("%sproducts", prefix),
		ArticlePlatforms:    fmt.Sprintf("%sarticle_platforms", prefix),
		ArticleProducts:     fmt.Sprintf("%sarticle_products", prefix),
		DynamicFields:       fmt.Sprintf("%sdynamic_fields", prefix),
		DynamicFieldOptions: fmt.Sprintf("%sdynamic_field_options", prefix),
		ArticleFieldValues:  fmt.Sprintf("%sarticle_field_values", prefix),
		UserPermissions:     fmt.Sprintf("%suser_permissions", prefix),
	}
}

// Label returns the label table for a taxonomy kind
func (t *TableNames) Label(kind models.LabelKind) string {
	if kind == models.LabelProduct {
		return t.Products
	}
	return t.Platforms
}

// LabelLink returns the article association table for a taxonomy kind
func (t *TableNames) LabelLink(kind models.LabelKind) string {
	if kind == models.LabelProduct {
		return t.ArticleProducts
	}
	return t.ArticlePlatforms
}

// LabelLinkColumn returns the label FK column of the association table
func (t *TableNames) LabelLinkColumn(kind models.LabelKind) string {
	if kind == models.LabelProduct {
		return "product_id"
	}
	return "platform_id"
}
