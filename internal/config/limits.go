package config

const (
	// MaxArticleTitleLength is the maximum length for article titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxArticleTitleLength = 255

	// MaxArticleContentLength bounds article bodies. Large enough for
	// long-form knowledge-base entries, small enough to keep single
	// rows and snapshots cheap.
	MaxArticleContentLength = 100_000

	// MaxTagLength is the maximum length for a single article tag.
	MaxTagLength = 100

	// MaxTagsPerArticle bounds the tag list size per article.
	MaxTagsPerArticle = 50

	// MaxLabelNameLength is the maximum length for platform and
	// product label names.
	MaxLabelNameLength = 255

	// MaxFieldNameLength is the maximum length for dynamic field names
	// and labels.
	MaxFieldNameLength = 255

	// MaxNotesLength bounds the free-form notes attached to articles.
	MaxNotesLength = 10_000

	// MaxSearchQueryLength bounds raw search query strings before
	// parsing.
	MaxSearchQueryLength = 500

	// MaxImportBatchSize bounds one bulk-import request.
	MaxImportBatchSize = 500
)
