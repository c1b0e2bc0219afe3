package models

import (
	"fmt"
	"time"
)

// Default search configuration values
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// ParsedQuery holds the term sets produced by the query parser.
// Required terms must all match (AND), excluded terms must not match
// (NOT, applied last), and optional terms must match at least once (OR)
// but only when no required terms are present.
type ParsedQuery struct {
	Required []string `json:"required"`
	Excluded []string `json:"excluded"`
	Optional []string `json:"optional"`
}

// Empty reports whether the query produced no effective terms at all.
// This is distinct from a query whose terms simply match nothing: an
// empty query skips term filtering entirely.
func (q *ParsedQuery) Empty() bool {
	return len(q.Required) == 0 && len(q.Excluded) == 0 && len(q.Optional) == 0
}

// SearchOptions configures how articles are searched.
type SearchOptions struct {
	// Query is the raw search string. It may be empty: an empty or
	// ineffective query returns the top articles by weight instead of
	// applying term logic.
	Query string

	// Limit caps the number of results (default 20, max 100).
	Limit int

	// PublicOnly restricts matching to public articles. Active-only
	// filtering always applies.
	PublicOnly bool

	// Enhanced attaches parser metadata to the results without
	// changing the matched set.
	Enhanced bool
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
}

// Validate checks that option values are reasonable
func (opts *SearchOptions) Validate() error {
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	return nil
}

// QueryMetadata describes how the parser classified a query. It is
// returned by enhanced search only; the result set is identical either
// way.
type QueryMetadata struct {
	Required []string `json:"required_terms"`
	Excluded []string `json:"excluded_terms"`
	Optional []string `json:"optional_terms"`
	// Effective is false when the raw query produced no usable terms,
	// in which case results fall back to weight-ordered listing.
	Effective bool `json:"effective"`
}

// SearchResults is the full search response.
type SearchResults struct {
	Articles []Article      `json:"articles"`
	Count    int            `json:"count"`
	Elapsed  time.Duration  `json:"-"`
	Metadata *QueryMetadata `json:"query,omitempty"`
}

// ElapsedMS reports the search duration in milliseconds for the wire
// format.
func (r *SearchResults) ElapsedMS() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}
