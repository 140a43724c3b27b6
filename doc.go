// Package repogen holds the runtime contracts shared by generated repositories.
//
// Repositories are produced by the repogen command (see cmd/repogen) from
// annotated struct declarations:
//
//	//repogen:repository soft_delete searchable=name,email filterable=status
//	type User struct {
//	    ID        int64
//	    Name      string
//	    Email     string
//	    Status    string
//	    Bio       *string
//	    CreatedAt time.Time
//	    UpdatedAt time.Time
//	    DeletedAt *time.Time
//	}
//
// The generated UserRepository returns the typed errors declared here
// (NotFoundError, ConstraintError, QueryError, FilterError), accepts
// SearchParams and returns SearchResult pages. UpdateUser payloads are built
// from Patch values so that "leave unchanged" and "set to NULL" stay distinct:
//
//	u, err := repo.Update(ctx, id, UpdateUser{
//	    Name: repogen.SetTo("Ada"),
//	    Bio:  repogen.Null[string](),
//	})
//	if repogen.IsNotFound(err) {
//	    // no such user
//	}
package repogen
