// Package sql provides the PostgreSQL statement builder and the database/sql
// driver used by generated repositories.
//
// # Builder Types
//
//   - Builder: low-level SQL string builder with identifier quoting and $n placeholders
//   - Selector: SELECT and SELECT COUNT(*) with predicates, ordering and bound LIMIT/OFFSET
//   - InsertBuilder: INSERT statement builder with RETURNING support
//   - UpdateBuilder: UPDATE statement builder with SET, WHERE and RETURNING clauses
//   - DeleteBuilder: DELETE statement builder with WHERE predicates
//
// The generator renders its SQL templates through the same builders, so the
// query text of generated code and of runtime-built queries is identical.
//
//	sql.Select("id", "name").From("users").
//	    Where(sql.And(sql.EQ("status", "active"), sql.IsNull("deleted_at"))).
//	    OrderBy(sql.Desc("name")).
//	    Limit(10).Offset(20)
//	// SELECT id, name FROM users WHERE status = $1 AND deleted_at IS NULL ORDER BY name DESC LIMIT $2 OFFSET $3
//
// Values that implement Querier, such as sql.Now and sql.Null, are written
// inline instead of being bound.
//
// # Predicates
//
//	sql.EQ("name", "john")           // name = $1
//	sql.NEQ("status", "deleted")     // status <> $1
//	sql.GT("age", 18)                // age > $1
//	sql.ILike("email", "%@acme.io")  // email ILIKE $1
//	sql.IsNull("deleted_at")         // deleted_at IS NULL
//	sql.ILikeAny([]string{"name", "email"}, "%jo%") // (name ILIKE $1 OR email ILIKE $1)
//
// # Identifiers
//
// Identifiers are quoted only when needed: reserved words and names that are
// not plain lower-case identifiers.
//
//	sql.Quote("email") // email
//	sql.Quote("user")  // "user"
//
// # Errors
//
// AsPgError, IsUniqueViolation, IsForeignKeyViolation and IsCheckViolation
// classify server errors of both github.com/lib/pq and pgx by SQLSTATE.
package sql
