// Package store is the data access layer over the users, projects and tasks
// collections. Every store is bound to a database.Querier, so the same
// methods run against the pool or inside a transaction (With).
package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

// IsNotFound reports whether err comes from a lookup that matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
