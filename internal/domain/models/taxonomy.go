package models

import (
	"fmt"
	"time"
)

// LabelKind selects one of the two taxonomy dimensions articles can be
// tagged with. It is a closed set validated at the boundary; code past
// the handler layer can assume a valid kind.
type LabelKind string

const (
	LabelPlatform LabelKind = "platform"
	LabelProduct  LabelKind = "product"
)

// Validate rejects kinds outside the closed set.
func (k LabelKind) Validate() error {
	switch k {
	case LabelPlatform, LabelProduct:
		return nil
	default:
		return fmt.Errorf("unknown label kind: %q (supported: platform, product)", k)
	}
}

// Label is a taxonomy entry (a platform or a product) that articles are
// associated with. Label names take part in search term matching.
type Label struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        *string   `json:"slug,omitempty" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
