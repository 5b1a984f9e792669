// Package store implements the data stores for users, devices, transaction
// history and purchasing information on top of SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is the subset of database/sql used by the store functions.
// It is satisfied by both *sql.DB and *sql.Tx, so every store operation can
// run standalone or as part of a larger transaction (cascade delete, bulk
// import).
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Sentinel errors returned by the store functions. Callers check them with
// errors.Is; the api layer maps them to 404 and 409.
var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("already exists")
)

// isConstraintErr reports whether err is a SQLite constraint violation
// (duplicate primary key, unique index, foreign key).
func isConstraintErr(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// normalizeLimit applies the default page size. A negative limit means
// unlimited, which SQLite expresses as LIMIT -1.
func normalizeLimit(limit int) int {
	if limit == 0 {
		return 100
	}
	return limit
}
