package gen

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/brianporeilly/repogen/schema/field"
)

// JenniferGenerator assembles the generated files of a graph. It is purely
// compositional: the graph is already validated, and the dialect decides
// what each file contains.
//
// Example:
//
//	import "github.com/brianporeilly/repogen/compiler/gen/sql"
//
//	g := gen.NewJenniferGenerator(graph)
//	g.WithDialect(sql.NewDialect(g))
//	res, err := g.Generate(ctx)
type JenniferGenerator struct {
	graph *Graph

	// Dialect generator for database-specific code.
	dialect RepositoryGenerator
	// Optional graph-level generation detected at runtime.
	graphGen GraphGenerator
}

// Result reports what a Generate call did, file names relative to the target.
type Result struct {
	Written []string
	Skipped []string
	Removed []string
}

// NewJenniferGenerator creates a new Jennifer-based generator.
// You must call WithDialect() to set a dialect before calling Generate().
func NewJenniferGenerator(g *Graph) *JenniferGenerator {
	return &JenniferGenerator{graph: g}
}

// WithDialect sets the dialect generator. Graph-level generation is
// detected via GraphGenerator.
func (g *JenniferGenerator) WithDialect(d RepositoryGenerator) *JenniferGenerator {
	if d != nil {
		g.dialect = d
		g.graphGen, _ = d.(GraphGenerator)
	}
	return g
}

// Render renders and formats every file of the graph without touching the
// target directory. The files are ordered by node, graph-level files last.
func (g *JenniferGenerator) Render(ctx context.Context) ([]*File, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Render()")
	}
	var (
		nodes = g.graph.Nodes
		files = make([]*File, len(nodes), len(nodes)+1)
		dir   = g.graph.Target
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.graph.workers())
	for i, t := range nodes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := t.Label() + "_repo.go"
			f, err := g.dialect.GenRepository(t)
			if err != nil {
				return NewGenerationError("render", name, t.Name, err)
			}
			files[i], err = render(f, dir, name)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if g.graphGen != nil {
		const name = "repositories.go"
		f, err := g.graphGen.GenRepositories()
		if err != nil {
			return nil, NewGenerationError("render", name, "", err)
		}
		if f != nil {
			out, err := render(f, dir, name)
			if err != nil {
				return nil, err
			}
			files = append(files, out)
		}
	}
	return files, nil
}

// Generate renders all files and writes them to the configured target in
// parallel. With the manifest enabled, unchanged files are skipped and files
// no longer generated are removed.
func (g *JenniferGenerator) Generate(ctx context.Context) (*Result, error) {
	cfg := g.graph.Config
	if cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	log := cfg.logger()
	files, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Target, 0o755); err != nil {
		return nil, NewGenerationError("write", cfg.Target, "create target directory", err)
	}
	prev, next := NewManifest(), NewManifest()
	if cfg.Manifest {
		if prev, err = ReadManifest(cfg.Target); err != nil {
			return nil, err
		}
	}

	var (
		mu  sync.Mutex
		res = &Result{}
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())
	for _, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			next.Record(f)
			if cfg.Manifest && prev.Unchanged(cfg.Target, f) {
				log.Debug("skip unchanged file", "file", f.Name)
				mu.Lock()
				res.Skipped = append(res.Skipped, f.Name)
				mu.Unlock()
				return nil
			}
			if err := f.write(cfg.Target); err != nil {
				return err
			}
			log.Debug("write file", "file", f.Name, "bytes", len(f.Content))
			mu.Lock()
			res.Written = append(res.Written, f.Name)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if cfg.Manifest {
		for _, name := range prev.Stale(next) {
			if err := remove(cfg.Target, name); err != nil {
				return nil, NewGenerationError("write", name, "remove stale file", err)
			}
			log.Debug("remove stale file", "file", name)
			res.Removed = append(res.Removed, name)
		}
		if err := next.Write(cfg.Target); err != nil {
			return nil, err
		}
	}
	log.Info("generation finished",
		"target", cfg.Target,
		"records", len(g.graph.Nodes),
		"written", len(res.Written),
		"skipped", len(res.Skipped),
		"removed", len(res.Removed),
	)
	return res, nil
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file with the configured header comment.
func (g *JenniferGenerator) NewFile() *jen.File {
	f := jen.NewFile(g.Pkg())
	if h := g.graph.Header; h != "" {
		f.HeaderComment(h)
	}
	f.ImportName(RepogenPkg, "repogen")
	f.ImportName(DialectPkg, "dialect")
	f.ImportName(SQLPkg, "sql")
	f.ImportName(SQLRepoPkg, "sqlrepo")
	f.ImportName(FieldPkg, "field")
	f.ImportName(UUIDPkg, "uuid")
	f.ImportName(PQPkg, "pq")
	return f
}

// GoType returns the Jennifer code for a field's declared Go type.
func (g *JenniferGenerator) GoType(f *Field) jen.Code {
	base := g.BaseType(f)
	switch {
	case f.Type == nil:
		return base
	case f.Type.Optional:
		return jen.Op("*").Add(base)
	case f.Type.List:
		return jen.Index().Add(base)
	}
	return base
}

// RecordType returns the Jennifer code naming the record struct of t.
func (g *JenniferGenerator) RecordType(t *Type) jen.Code {
	if g.graph.SchemaPkg == "" || g.graph.Records {
		return jen.Id(t.Name)
	}
	return jen.Qual(g.graph.SchemaPkg, t.Name)
}

// BaseType returns the Jennifer code for a field's base type.
func (g *JenniferGenerator) BaseType(f *Field) jen.Code {
	if f.Type == nil {
		return jen.Any()
	}
	switch f.Type.Type {
	case field.TypeString:
		return jen.String()
	case field.TypeBool:
		return jen.Bool()
	case field.TypeInt:
		return jen.Int()
	case field.TypeInt16:
		return jen.Int16()
	case field.TypeInt32:
		return jen.Int32()
	case field.TypeInt64:
		return jen.Int64()
	case field.TypeUint16:
		return jen.Uint16()
	case field.TypeUint32:
		return jen.Uint32()
	case field.TypeFloat32:
		return jen.Float32()
	case field.TypeFloat64:
		return jen.Float64()
	case field.TypeTime:
		return jen.Qual("time", "Time")
	case field.TypeUUID:
		return jen.Qual(UUIDPkg, "UUID")
	default:
		return jen.Any()
	}
}

// Graph returns the schema graph.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string {
	switch {
	case g.graph.Package != "":
		return g.graph.Package
	case g.graph.Target != "":
		return filepath.Base(g.graph.Target)
	default:
		return "repository"
	}
}

// FeatureEnabled reports if the given feature name is enabled.
func (g *JenniferGenerator) FeatureEnabled(name string) bool {
	return g.graph.FeatureEnabled(name)
}
