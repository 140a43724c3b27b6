// Package sql implements the PostgreSQL repository generator.
//
// For every record of a graph it synthesizes the query templates of the
// repository operations and emits a file with the templates as constants,
// the repository built on sqlrepo.Repo, the row mapper and the create and
// update shapes.
//
// # Templates
//
// Synthesize renders every statement through the dialect/sql builders, with
// the record fields as placeholder arguments. The rendered arguments become
// the bindings of the template:
//
//	userInsertQuery     INSERT INTO users (name, email, created_at, updated_at, deleted_at)
//	                    VALUES ($1, $2, NOW(), NOW(), NULL) RETURNING id, name, ...
//	userFindByIDQuery   SELECT ... FROM users WHERE id = $1 AND deleted_at IS NULL
//	userSearchPageQuery SELECT ... WHERE (name ILIKE $1 OR email ILIKE $1) AND deleted_at IS NULL
//	                    ORDER BY id ASC LIMIT $2 OFFSET $3
//
// Reads of soft-delete tables get one template per scope (active, deleted,
// all). The generated methods pick the variant from repogen.QueryOption.
//
// # Generated Output Structure
//
//	{output}/
//	├── {record}_repo.go   # Templates, repository, scan function, shapes
//	└── repositories.go    # Repositories aggregate and InTx
//
// # Usage
//
//	graph, err := gen.NewGraph(cfg, schemas...)
//	if err != nil {
//	    return err
//	}
//	res, err := sql.Generate(ctx, graph)
package sql
