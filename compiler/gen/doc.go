// Package gen turns annotated record declarations into repository code.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	Record declarations (models/*.go or repogen.yaml)
//	        ↓
//	   load.Schema (parsed declarations with positions)
//	        ↓
//	   Graph (classified and validated Types)
//	        ↓
//	   RepositoryGenerator (dialect-specific code)
//	        ↓
//	   Generated code ({record}_repo.go, repositories.go)
//
// # Key Types
//
//   - Graph: Holds all Type definitions of one run
//   - Type: A record with its table, primary key, audit and soft-delete fields
//   - Field: A column with its Go type, role and repository options
//   - Config: Global configuration for code generation
//   - DiagnosticSet: Every problem found while validating the declarations
//
// # Diagnostics
//
// NewGraph validates all declarations before anything is generated. Problems
// are not reported one at a time: the returned error is a DiagnosticSet that
// carries each failure with its position, its kind and a corrected example
// of the declaration.
//
//	graph, err := gen.NewGraph(config, schemas...)
//	if err != nil {
//	    for _, d := range gen.Diagnostics(err) {
//	        fmt.Println(d.Pos, d.Kind, d.Message)
//	    }
//	    return err
//	}
//
// Errors outside of the declarations use ConfigError and GenerationError.
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./repository"),
//	    gen.WithPackage("repository"),
//	    gen.WithSchemaPkg("github.com/org/project/models"),
//	    gen.WithFeatures(gen.FeatureTemplates),
//	    gen.WithManifest(true),
//	)
//
// # Usage
//
// The recommended way to generate code is through the sql package:
//
//	import "github.com/brianporeilly/repogen/compiler/gen/sql"
//
//	res, err := sql.Generate(ctx, graph)
//
// Or manually configure the generator:
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(sql.NewDialect(generator))
//	res, err := generator.Generate(ctx)
//
// Render returns the formatted files without writing them. Generate writes
// them in parallel and, with the manifest enabled, skips files whose content
// did not change and removes files no longer generated.
//
// # Features
//
//   - uuid: uuid.UUID columns
//   - sql/arrays: slice columns mapped to Postgres arrays
//   - sql/templates: export the query templates of each repository
package gen
