package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/brianporeilly/repogen/compiler/gen"
)

// Generate is a convenience function generating the PostgreSQL repositories
// of a graph with the Jennifer generator. It is the recommended entry point.
//
// Example:
//
//	import "github.com/brianporeilly/repogen/compiler/gen/sql"
//	res, err := sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) (*gen.Result, error) {
	if g.Config == nil || g.Target == "" {
		return nil, gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	generator := gen.NewJenniferGenerator(g)
	generator.WithDialect(NewDialect(generator))
	return generator.Generate(ctx)
}

// Dialect implements gen.RepositoryGenerator and gen.GraphGenerator for
// PostgreSQL.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new PostgreSQL dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "postgres"
}

// GenRepository generates the repository file (<record>_repo.go).
// Includes: query templates, table description, repository, row mapper,
// create and update shapes.
func (d *Dialect) GenRepository(t *gen.Type) (*jen.File, error) {
	return genRepository(d.helper, t)
}

// GenRepositories generates repositories.go.
// Includes: Repositories struct, NewRepositories, InTx.
func (d *Dialect) GenRepositories() (*jen.File, error) {
	return genRepositories(d.helper), nil
}

// genRepositories generates the aggregate of every repository of the graph
// and the transaction helper.
func genRepositories(h gen.GeneratorHelper) *jen.File {
	f := h.NewFile()
	nodes := h.Graph().Nodes

	f.Comment("Repositories holds the repository of every record.")
	f.Type().Id("Repositories").StructFunc(func(grp *jen.Group) {
		for _, t := range nodes {
			grp.Id(t.Name).Op("*").Id(t.RepositoryName())
		}
	})

	f.Comment("NewRepositories returns the repositories of every record, executing")
	f.Comment("their statements on drv.")
	f.Func().Id("NewRepositories").Params(jen.Id("drv").Qual(gen.DialectPkg, "ExecQuerier")).Op("*").Id("Repositories").Block(
		jen.Return(jen.Op("&").Id("Repositories").Values(jen.DictFunc(func(d jen.Dict) {
			for _, t := range nodes {
				d[jen.Id(t.Name)] = jen.Id("New" + t.RepositoryName()).Call(jen.Id("drv"))
			}
		}))),
	)

	f.Comment("InTx runs fn with repositories bound to a new transaction of drv. The")
	f.Comment("transaction is committed if fn returns nil and rolled back otherwise.")
	f.Func().Id("InTx").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("drv").Qual(gen.DialectPkg, "Driver"),
		jen.Id("fn").Func().Params(jen.Op("*").Id("Repositories")).Error(),
	).Error().Block(
		jen.List(jen.Id("tx"), jen.Err()).Op(":=").Id("drv").Dot("Tx").Call(jen.Id("ctx")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Err()),
		),
		jen.If(
			jen.Err().Op(":=").Id("fn").Call(jen.Id("NewRepositories").Call(jen.Id("tx"))),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.If(
				jen.Id("rerr").Op(":=").Id("tx").Dot("Rollback").Call(),
				jen.Id("rerr").Op("!=").Nil(),
			).Block(
				jen.Return(jen.Qual("errors", "Join").Call(jen.Err(), jen.Id("rerr"))),
			),
			jen.Return(jen.Err()),
		),
		jen.Return(jen.Id("tx").Dot("Commit").Call()),
	)
	return f
}

var (
	_ gen.RepositoryGenerator = (*Dialect)(nil)
	_ gen.GraphGenerator      = (*Dialect)(nil)
)
