package models

import (
	"fmt"
	"time"
)

// FieldType is the closed set of dynamic field input types. Values are
// validated once at the boundary, not re-checked at each use site.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiselect FieldType = "multiselect"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeNumber      FieldType = "number"
	FieldTypeDate        FieldType = "date"
	FieldTypeEmail       FieldType = "email"
	FieldTypeURL         FieldType = "url"
)

// Validate rejects field types outside the closed set.
func (t FieldType) Validate() error {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeMultiselect,
		FieldTypeCheckbox, FieldTypeNumber, FieldTypeDate, FieldTypeEmail, FieldTypeURL:
		return nil
	default:
		return fmt.Errorf("unknown field type: %q", t)
	}
}

// HasOptions reports whether the field type carries a fixed option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeMultiselect
}

// DynamicField is an admin-defined attribute that can be attached to any
// article. Field value semantics (parsing, constraint checks) belong to
// the attribute subsystem, not to the content core.
type DynamicField struct {
	ID          string        `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Label       string        `json:"label" db:"label"`
	FieldType   FieldType     `json:"field_type" db:"field_type"`
	IsRequired  bool          `json:"is_required" db:"is_required"`
	IsActive    bool          `json:"is_active" db:"is_active"`
	SortOrder   int           `json:"sort_order" db:"sort_order"`
	Placeholder string        `json:"placeholder,omitempty" db:"placeholder"`
	HelpText    string        `json:"help_text,omitempty" db:"help_text"`
	Options     []FieldOption `json:"options,omitempty"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// FieldOption is one choice of a select/multiselect field.
type FieldOption struct {
	ID        string    `json:"id" db:"id"`
	FieldID   string    `json:"field_id" db:"field_id"`
	Value     string    `json:"value" db:"value"`
	Label     string    `json:"label" db:"label"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FieldValue is the value of a dynamic field on a specific article.
// Values are stored as text; interpretation follows the field type.
type FieldValue struct {
	ID        string    `json:"id" db:"id"`
	ArticleID string    `json:"article_id" db:"article_id"`
	FieldID   string    `json:"field_id" db:"field_id"`
	Value     string    `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
