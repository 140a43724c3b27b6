package gen

import "github.com/dave/jennifer/jen"

// Import paths of the runtime packages referenced by generated code.
const (
	RepogenPkg = "github.com/brianporeilly/repogen"
	DialectPkg = RepogenPkg + "/dialect"
	SQLPkg     = DialectPkg + "/sql"
	SQLRepoPkg = SQLPkg + "/sqlrepo"
	FieldPkg   = RepogenPkg + "/schema/field"
	UUIDPkg    = "github.com/google/uuid"
	PQPkg      = "github.com/lib/pq"
)

// RepositoryGenerator generates per-record code. It is called once per node
// of the graph, possibly concurrently.
type RepositoryGenerator interface {
	// Name returns the dialect name, e.g. "postgres".
	Name() string
	// GenRepository generates the repository file (<record>_repo.go): the
	// query templates, the repository, the row mapper and the shapes.
	GenRepository(t *Type) (*jen.File, error)
}

// GraphGenerator is implemented by dialects that also emit graph-level
// files. It is optional.
type GraphGenerator interface {
	// GenRepositories generates repositories.go, the aggregate of all
	// repositories of the graph.
	GenRepositories() (*jen.File, error)
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile() *jen.File

	// GoType returns the Jennifer code for a field's declared Go type.
	GoType(f *Field) jen.Code

	// RecordType returns the Jennifer code naming the record struct of t,
	// qualified when the records live in another package.
	RecordType(t *Type) jen.Code

	// BaseType returns the Jennifer code for a field's base type, without
	// pointer or slice.
	BaseType(f *Field) jen.Code

	// Graph returns the schema graph.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string

	// FeatureEnabled reports if the given feature name is enabled.
	FeatureEnabled(name string) bool
}
