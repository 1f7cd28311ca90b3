package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/melihemreguler/urlshortener/internal/database"
)

const uniqueViolationErrCode = "23505"

// uniqueViolationError maps a unique constraint violation to the store error
// variant for the violated column, so callers can distinguish a short code
// collision from a duplicate long URL. Returns nil for any other error.
func uniqueViolationError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.SQLState() != uniqueViolationErrCode {
		return nil
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "short_code"):
		return database.ErrShortCodeExists
	case strings.Contains(pgErr.ConstraintName, "long_url"):
		return database.ErrLongURLExists
	default:
		return nil
	}
}
