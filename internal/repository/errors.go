package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConflict is returned when an insert hits a primary-key or unique
// constraint.
var ErrConflict = errors.New("record already exists")

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite (modernc driver) has no typed error we depend on
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
