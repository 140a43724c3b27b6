package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver.
	_ "github.com/lib/pq"              // registers the "postgres" driver.

	"github.com/brianporeilly/repogen/dialect"
)

// Driver runs repository statements on a *sql.DB.
type Driver struct {
	Conn
}

// Open opens a database with database/sql and wraps it in a Driver. The
// driver name is dialect.Postgres for lib/pq or dialect.PGX for pgx.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(driverName, db), nil
}

// OpenDB wraps an opened database. name is the database/sql driver name the
// database was opened with.
func OpenDB(name string, db *sql.DB) *Driver {
	return &Driver{Conn{ExecQuerier: db, name: name}}
}

// DB returns the wrapped database.
func (d *Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Dialect returns dialect.Postgres for both PostgreSQL drivers, including
// wrapped driver names such as "postgres-otel".
func (d *Driver) Dialect() string {
	if strings.HasPrefix(d.name, dialect.Postgres) || strings.HasPrefix(d.name, dialect.PGX) {
		return dialect.Postgres
	}
	return d.name
}

// Tx begins a transaction. Statements of the returned Tx run on the
// transaction's connection until it is committed or rolled back.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	return &Tx{Conn: Conn{ExecQuerier: tx, name: d.name}, Tx: tx}, nil
}

// Close closes the database.
func (d *Driver) Close() error { return d.DB().Close() }

var _ dialect.Driver = (*Driver)(nil)

// Tx is a transaction started by Driver.Tx. Commit and Rollback come from
// the wrapped *sql.Tx.
type Tx struct {
	Conn
	driver.Tx
}

// ExecQuerier is the subset of *sql.DB, *sql.Tx and *sql.Conn a Conn needs.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn adapts an ExecQuerier to dialect.ExecQuerier.
type Conn struct {
	ExecQuerier
	name string
}

// Exec runs a statement. args must be a []any and v either nil or a *Result
// receiving the outcome.
func (c Conn) Exec(ctx context.Context, query string, args, v any) error {
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: exec: args must be []any, got %T", args)
	}
	switch v := v.(type) {
	case nil:
		if _, err := c.ExecContext(ctx, query, argv...); err != nil {
			return fmt.Errorf("dialect/sql: exec: %w", err)
		}
	case *Result:
		res, err := c.ExecContext(ctx, query, argv...)
		if err != nil {
			return fmt.Errorf("dialect/sql: exec: %w", err)
		}
		*v = res
	default:
		return fmt.Errorf("dialect/sql: exec: v must be *sql.Result, got %T", v)
	}
	return nil
}

// Query runs a query and stores its rows in v, which must be a *Rows. The
// caller closes the rows.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	rows, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: query: v must be *sql.Rows, got %T", v)
	}
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: query: args must be []any, got %T", args)
	}
	rs, err := c.QueryContext(ctx, query, argv...)
	if err != nil {
		return fmt.Errorf("dialect/sql: query: %w", err)
	}
	rows.ColumnScanner = rs
	return nil
}

type (
	// Rows holds the result of Conn.Query.
	Rows struct{ ColumnScanner }
	// Result is the outcome of Conn.Exec.
	Result = sql.Result
)

// ColumnScanner is the part of *sql.Rows that row mappers use.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}
