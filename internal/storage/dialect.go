package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour of the relational backend.
type Dialect string

const (
	// SQLite is the default single-file store (modernc.org/sqlite).
	SQLite Dialect = "sqlite"
	// Postgres targets a PostgreSQL server through lib/pq.
	Postgres Dialect = "postgres"
)

// ParseDialect maps a DB_DRIVER value to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case SQLite, Postgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string { return string(d) }

// Rebind rewrites `?` placeholders into the dialect's bind syntax.
// Queries in this package never contain a literal `?`.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
