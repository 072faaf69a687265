package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

var errNoRows = pgx.ErrNoRows

// translate maps driver errors onto repository sentinels.
// A foreign key violation means a referenced row is missing on insert/update
// and a referencing row still exists on delete, so callers pick via onFK.
func translate(op string, err error, onFK error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: constraint %s: %w", op, pgErr.ConstraintName, repository.ErrDuplicate)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: constraint %s: %w", op, pgErr.ConstraintName, onFK)
		case pgerrcode.InvalidTextRepresentation:
			// malformed uuid
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
