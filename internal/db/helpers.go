package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Dialect follows the database/sql driver name.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "pgx"
)

func DialectFor(driver string) Dialect {
	if strings.EqualFold(strings.TrimSpace(driver), string(Postgres)) {
		return Postgres
	}
	return MySQL
}

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Rebind rewrites ? placeholders to $n for Postgres.
func Rebind(d Dialect, query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func HasTable(ctx context.Context, q QueryRower, d Dialect, table string) bool {
	schema := "DATABASE()"
	if d == Postgres {
		schema = "current_schema()"
	}
	var name sql.NullString
	err := q.QueryRowContext(ctx, Rebind(d, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = `+schema+`
		  AND table_name = ?
		LIMIT 1
	`), table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

func HasColumn(ctx context.Context, q QueryRower, d Dialect, table, column string) bool {
	schema := "DATABASE()"
	if d == Postgres {
		schema = "current_schema()"
	}
	var name sql.NullString
	err := q.QueryRowContext(ctx, Rebind(d, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = `+schema+`
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`), table, column).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
