// Package dialect names the database dialects the generator can target.
//
// The dialect selects the primitive column-type mapping used by the
// table emitter. It never changes the field list itself.
package dialect

import "fmt"

// A Dialect is a supported database dialect.
type Dialect string

// Supported dialects.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// String returns the dialect name.
func (d Dialect) String() string { return string(d) }

// Valid reports if the dialect is supported.
func (d Dialect) Valid() bool {
	return d == SQLite || d == Postgres
}

// Parse parses a dialect name.
func Parse(s string) (Dialect, error) {
	d := Dialect(s)
	if !d.Valid() {
		return "", fmt.Errorf("unsupported dialect %q; use sqlite or postgres", s)
	}
	return d, nil
}
