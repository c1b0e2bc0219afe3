package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kbase/internal/domain"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "no rows becomes not found",
			err:  pgx.ErrNoRows,
			want: domain.ErrNotFound,
		},
		{
			name: "wrapped no rows becomes not found",
			err:  fmt.Errorf("scan: %w", pgx.ErrNoRows),
			want: domain.ErrNotFound,
		},
		{
			name: "unique violation becomes conflict",
			err:  &pgconn.PgError{Code: "23505"},
			want: domain.ErrConflict,
		},
		{
			name: "foreign key violation becomes not found",
			err:  &pgconn.PgError{Code: "23503"},
			want: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPgError(tt.err, "op", "article a1")
			if !errors.Is(got, tt.want) {
				t.Errorf("mapPgError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapPgErrorPassesThroughUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := mapPgError(cause, "list articles", "article a1")

	if !errors.Is(got, cause) {
		t.Errorf("mapPgError() = %v, want the cause preserved", got)
	}
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrConflict) {
		t.Errorf("unknown error mapped to a sentinel: %v", got)
	}
}
