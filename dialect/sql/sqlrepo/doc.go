// Package sqlrepo holds the table-level statements and the row plumbing
// shared by generated repositories.
//
// A TableSpec describes one table. Its query methods render the statements
// of every repository operation through the dialect/sql builder:
//
//	spec := &sqlrepo.TableSpec{
//	    Table:     "users",
//	    ID:        "id",
//	    Columns:   []string{"id", "name", "email", "created_at", "deleted_at"},
//	    CreatedAt: "created_at",
//	    DeletedAt: "deleted_at",
//	}
//	spec.FindByIDQuery(int64(1), repogen.Active)
//	// SELECT id, name, email, created_at, deleted_at FROM users WHERE id = $1 AND deleted_at IS NULL
//
// The generator renders the same methods with field placeholders to produce
// the query constants of generated code, and generated repositories call them
// at run time for the statements that depend on input, such as partial
// updates and searches.
//
// Repo executes those statements against a dialect.ExecQuerier, maps rows
// with a generated scan function and converts driver failures into the
// repogen error types.
package sqlrepo
