// Package store maps application requests onto parameterized SQL against
// the lightbnb Postgres database. Every operation issues exactly one
// statement through the shared *sql.DB pool and returns its result together
// with an explicit error, so callers can always tell "no rows" apart from
// "query failed". Sentinel values defined here let handlers translate
// failures into the right HTTP responses.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by single-row lookups when no row matches the
// key. Handlers should translate this into an HTTP 404 (or 401 for
// credential lookups).
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when inserting a user whose email already
// exists. Handlers should translate this into an HTTP 409 response.
var ErrEmailTaken = errors.New("email already taken")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
