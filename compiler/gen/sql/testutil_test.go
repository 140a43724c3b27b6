package sql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/compiler/load"
)

const modelsSrc = `package models

import "time"

// User is an account of the service.
//
//repogen:repository soft_delete searchable=name,email filterable=name,email,status
type User struct {
	ID        int64
	Name      string
	Email     string
	Status    string
	Tags      []string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

//repogen:repository table=kv
type Key struct {
	ID    int64
	Name  string
	Value string
}
`

// loadGraph parses src and builds its graph with the given options.
func loadGraph(t *testing.T, src string, opts ...gen.Option) *gen.Graph {
	t.Helper()
	schemas, err := load.ParseFile("models.go", src)
	require.NoError(t, err)
	opts = append([]gen.Option{gen.WithPackage("models"), gen.WithTarget(t.TempDir())}, opts...)
	cfg, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, schemas...)
	require.NoError(t, err)
	return g
}

// node returns the type of the graph with the given name.
func node(t *testing.T, g *gen.Graph, name string) *gen.Type {
	t.Helper()
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	require.Failf(t, "missing node", "no record %s in graph", name)
	return nil
}

// renderRepo generates the repository file of the named record.
func renderRepo(t *testing.T, g *gen.Graph, name string) string {
	t.Helper()
	d := NewDialect(gen.NewJenniferGenerator(g))
	f, err := d.GenRepository(node(t, g, name))
	require.NoError(t, err)
	return f.GoString()
}
