package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kbase/internal/domain"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgErrCode(err) == "23505"
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgErrCode(err) == "23503"
}

// mapPgError translates driver-level errors into domain sentinels. No
// rows means the entity is missing; a unique violation means it already
// exists; a foreign key violation means the referenced entity is
// missing. Anything else is wrapped with the operation name only.
func mapPgError(err error, op, entity string) error {
	switch {
	case IsPgNoRowsError(err):
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	case IsPgDuplicateError(err):
		return fmt.Errorf("%s: %w", entity, domain.ErrConflict)
	case IsPgForeignKeyError(err):
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
