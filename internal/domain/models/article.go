package models

import (
	"fmt"
	"time"
)

// Weight score bounds and vote adjustment steps. The weight score is a
// bounded trust proxy: helpful votes push it up, unhelpful votes pull it
// down, and ranking orders by it. Requests may set any weight in
// [MinWeightScore, MaxWeightScore]; votes never pull an article below
// VoteWeightFloor.
const (
	DefaultWeightScore = 1.0
	MinWeightScore     = 0.0
	MaxWeightScore     = 10.0
	VoteWeightFloor    = 0.1
	HelpfulVoteStep    = 0.1
	UnhelpfulVoteStep  = 0.05
)

// Article is the live, currently-visible version of a knowledge-base
// entry. Historical snapshots live in Revision rows; the live row must
// always equal the most recently published revision.
type Article struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	Tags           []string  `json:"tags" db:"tags"`
	WeightScore    float64   `json:"weight_score" db:"weight_score"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	IsPublic       bool      `json:"is_public" db:"is_public"`
	ViewCount      int       `json:"view_count" db:"view_count"`
	HelpfulVotes   int       `json:"helpful_votes" db:"helpful_votes"`
	UnhelpfulVotes int       `json:"unhelpful_votes" db:"unhelpful_votes"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// AdjustedWeight returns the weight score after applying a vote,
// clamped to [VoteWeightFloor, MaxWeightScore].
func AdjustedWeight(current float64, helpful bool) float64 {
	if helpful {
		w := current + HelpfulVoteStep
		if w > MaxWeightScore {
			return MaxWeightScore
		}
		return w
	}
	w := current - UnhelpfulVoteStep
	if w < VoteWeightFloor {
		return VoteWeightFloor
	}
	return w
}

// SortField selects the column articles are ordered by when listing.
type SortField string

const (
	SortByUpdatedAt   SortField = "updated_at"
	SortByCreatedAt   SortField = "created_at"
	SortByWeightScore SortField = "weight_score"
)

// SortOrder is the list ordering direction.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// Default pagination values for article listing.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListOptions configures paginated article listing.
type ListOptions struct {
	Offset     int
	Limit      int
	SortBy     SortField
	Order      SortOrder
	PublicOnly bool
}

// ApplyDefaults fills in default values for unset fields
func (opts *ListOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.SortBy == "" {
		opts.SortBy = SortByUpdatedAt
	}
	if opts.Order == "" {
		opts.Order = SortDesc
	}
}

// Validate checks that option values are usable
func (opts *ListOptions) Validate() error {
	if opts.Limit > MaxListLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxListLimit, opts.Limit)
	}
	switch opts.SortBy {
	case SortByUpdatedAt, SortByCreatedAt, SortByWeightScore:
	default:
		return fmt.Errorf("invalid sort field: %q (supported: updated_at, created_at, weight_score)", opts.SortBy)
	}
	switch opts.Order {
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("invalid sort order: %q (supported: asc, desc)", opts.Order)
	}
	return nil
}
