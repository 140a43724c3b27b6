// Package dialect defines the driver contract generated repositories execute
// their queries through.
//
// # Dialects
//
// Only PostgreSQL is supported. It is reachable through two database/sql
// driver names:
//
//	dialect.Postgres = "postgres" // github.com/lib/pq
//	dialect.PGX      = "pgx"      // github.com/jackc/pgx/v5/stdlib
//
// # ExecQuerier Interface
//
// Generated repositories depend only on ExecQuerier, which is implemented by
// both Driver and Tx:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// # Usage
//
//	import (
//	    "github.com/brianporeilly/repogen/dialect"
//	    "github.com/brianporeilly/repogen/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	users := models.NewUserRepository(drv)
//
// Inside a transaction:
//
//	tx, err := drv.Tx(ctx)
//	...
//	users := models.NewUserRepository(tx)
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver, statement builder and PostgreSQL error classification
//   - dialect/sql/sqlrepo: runtime helpers invoked by generated repositories
package dialect
