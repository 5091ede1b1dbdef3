// Package dialect names the supported SQL dialects and the per-dialect
// capabilities the compiler keys off: parameter placeholder format and
// native NULLS FIRST/LAST support.
//
// Adding a dialect means adding a constant and extending the two capability
// functions; nothing in the compiler branches on dialect names directly.
package dialect

import (
	"context"
	"strconv"
)

// Dialects the compiler can emit SQL for.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Placeholder returns the i-th (1-based) parameter placeholder for the
// dialect. Postgres numbers its placeholders; the others use positional
// question marks.
func Placeholder(dialect string, i int) string {
	if dialect == Postgres {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

// SupportsNullOrdering reports whether the dialect accepts native
// NULLS FIRST / NULLS LAST modifiers in ORDER BY. When it does not, the
// compiler emulates the requested placement with a CASE expression.
func SupportsNullOrdering(dialect string) bool {
	switch dialect {
	case Postgres, SQLite:
		return true
	default:
		// MySQL (and unknown dialects) sort NULLs at a fixed edge only.
		return false
	}
}

// ExecQuerier wraps the database operations used to run compiled statements.
type ExecQuerier interface {
	// Exec executes a query that does not return records.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps transaction commit and rollback around an ExecQuerier.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
