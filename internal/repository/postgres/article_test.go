package postgres

import (
	"strings"
	"testing"

	"kbase/internal/domain/models"
)

func TestBuildSearchQuery_RequiredTermsAnd(t *testing.T) {
	tables := NewTableNames("test_")
	query := &models.ParsedQuery{Required: []string{"alpha", "beta"}}
	opts := &models.SearchOptions{Limit: 20}

	sql, args := buildSearchQuery(tables, query, opts)

	// One pattern per required term plus the limit
	if len(args) != 3 {
		t.Fatalf("args = %v, want two patterns and a limit", args)
	}
	if args[0] != "%alpha%" || args[1] != "%beta%" {
		t.Errorf("patterns = %v, want wrapped terms", args[:2])
	}
	if args[2] != 20 {
		t.Errorf("limit arg = %v, want 20", args[2])
	}
	if !strings.Contains(sql, "is_active = TRUE") {
		t.Error("active filter missing")
	}
	if strings.Contains(sql, "is_public = TRUE") {
		t.Error("public filter must be absent unless requested")
	}
	if strings.Count(sql, "AND") < 2 {
		t.Errorf("required terms must AND together:\n%s", sql)
	}
	if !strings.Contains(sql, "ORDER BY weight_score DESC, updated_at DESC") {
		t.Errorf("ordering clause missing:\n%s", sql)
	}
}

func TestBuildSearchQuery_OptionalOrsOnlyWithoutRequired(t *testing.T) {
	tables := NewTableNames("test_")
	opts := &models.SearchOptions{Limit: 10}

	// Optional-only: terms OR together
	sql, args := buildSearchQuery(tables, &models.ParsedQuery{Optional: []string{"one", "two"}}, opts)
	if len(args) != 3 {
		t.Fatalf("optional-only args = %v, want two patterns and a limit", args)
	}
	if !strings.Contains(sql, " OR ") {
		t.Errorf("optional terms must OR:\n%s", sql)
	}

	// With a required term present, optional terms stop filtering
	sql, args = buildSearchQuery(tables, &models.ParsedQuery{
		Required: []string{"req"},
		Optional: []string{"opt"},
	}, opts)
	if len(args) != 2 {
		t.Fatalf("args = %v, want only the required pattern and the limit", args)
	}
	if args[0] != "%req%" {
		t.Errorf("pattern = %v, want required term only", args[0])
	}
	if strings.Contains(sql, "%opt%") {
		t.Errorf("optional term leaked into SQL:\n%s", sql)
	}
}

func TestBuildSearchQuery_ExcludedTermsNegated(t *testing.T) {
	tables := NewTableNames("test_")
	opts := &models.SearchOptions{Limit: 5, PublicOnly: true}

	sql, args := buildSearchQuery(tables, &models.ParsedQuery{Excluded: []string{"bad"}}, opts)

	if args[0] != "%bad%" {
		t.Errorf("pattern = %v, want excluded term", args[0])
	}
	if !strings.Contains(sql, "NOT (") {
		t.Errorf("excluded term must be negated:\n%s", sql)
	}
	if !strings.Contains(sql, "is_public = TRUE") {
		t.Errorf("public-only filter missing:\n%s", sql)
	}
}

func TestBuildSearchQuery_MatchesLabelNames(t *testing.T) {
	tables := NewTableNames("dev_")
	sql, _ := buildSearchQuery(tables, &models.ParsedQuery{Required: []string{"ios"}}, &models.SearchOptions{Limit: 20})

	for _, table := range []string{tables.Platforms, tables.Products, tables.ArticlePlatforms, tables.ArticleProducts} {
		if !strings.Contains(sql, table) {
			t.Errorf("search must reach %s:\n%s", table, sql)
		}
	}
	if !strings.Contains(sql, "a.tags::text ILIKE") {
		t.Errorf("tag matching missing:\n%s", sql)
	}
}

func TestListOrderClause(t *testing.T) {
	tests := []struct {
		name string
		opts models.ListOptions
		want string
	}{
		{
			name: "weight sort breaks ties on recency",
			opts: models.ListOptions{SortBy: models.SortByWeightScore, Order: models.SortDesc},
			want: "weight_score DESC, updated_at DESC",
		},
		{
			name: "weight sort ascending keeps the tie-break",
			opts: models.ListOptions{SortBy: models.SortByWeightScore, Order: models.SortAsc},
			want: "weight_score ASC, updated_at DESC",
		},
		{
			name: "updated_at sort has no secondary column",
			opts: models.ListOptions{SortBy: models.SortByUpdatedAt, Order: models.SortDesc},
			want: "updated_at DESC",
		},
		{
			name: "created_at ascending",
			opts: models.ListOptions{SortBy: models.SortByCreatedAt, Order: models.SortAsc},
			want: "created_at ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listOrderClause(&tt.opts); got != tt.want {
				t.Errorf("listOrderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	if tables.Articles != "test_articles" {
		t.Errorf("Articles = %q, want test_articles", tables.Articles)
	}
	if tables.ArticleVersions != "test_article_versions" {
		t.Errorf("ArticleVersions = %q, want test_article_versions", tables.ArticleVersions)
	}

	if tables.Label(models.LabelPlatform) != "test_platforms" || tables.Label(models.LabelProduct) != "test_products" {
		t.Error("Label() picks the wrong table")
	}
	if tables.LabelLinkColumn(models.LabelPlatform) != "platform_id" || tables.LabelLinkColumn(models.LabelProduct) != "product_id" {
		t.Error("LabelLinkColumn() picks the wrong column")
	}
}

func TestQualifyColumns(t *testing.T) {
	got := qualifyColumns("a", "id, title,\n\t\tcontent")
	want := "a.id, a.title, a.content"
	if got != want {
		t.Errorf("qualifyColumns() = %q, want %q", got, want)
	}
}
