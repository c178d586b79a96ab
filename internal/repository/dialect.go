package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Dialect selects the SQL flavour of the relational backend.  Queries are
// written with MySQL-style '?' placeholders and rebound for Postgres.
type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

// ParseDialect maps a STORE_BACKEND value to a Dialect.
func ParseDialect(backend string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "mysql":
		return MySQL, true
	case "postgres", "postgresql", "pgx":
		return Postgres, true
	}
	return MySQL, false
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

// Rebind rewrites '?' placeholders to $1..$n for Postgres.  Queries in
// this package never contain a literal '?' inside a string constant.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// IsDuplicate reports whether err is a unique-constraint violation:
// MySQL error 1062 or Postgres SQLSTATE 23505.
func IsDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insert executes an INSERT and returns the generated id.  MySQL reports
// it through LastInsertId; Postgres needs RETURNING.
func (d Dialect) insert(ctx context.Context, db querier, q string, args ...any) (uint64, error) {
	if d == Postgres {
		var id uint64
		if err := db.QueryRowContext(ctx, d.Rebind(q)+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
