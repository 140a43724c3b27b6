package gen

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/brianporeilly/repogen/compiler/load"
)

// Graph holds the validated record types of one generation run.
type Graph struct {
	*Config
	// Nodes are the record types, in declaration order.
	Nodes []*Type
}

// NewGraph classifies and validates the given declarations concurrently.
// When any declaration is invalid, the returned error is a DiagnosticSet
// holding every failure, ordered by declaration, and no graph is returned.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	if c == nil {
		var err error
		if c, err = NewConfig(); err != nil {
			return nil, err
		}
	}
	var (
		nodes = make([]*Type, len(schemas))
		errs  = make([]error, len(schemas))
		eg    errgroup.Group
	)
	eg.SetLimit(c.workers())
	for i, s := range schemas {
		eg.Go(func() error {
			nodes[i], errs[i] = NewType(c, s)
			return nil
		})
	}
	_ = eg.Wait()

	var diags DiagnosticSet
	for _, err := range errs {
		diags = append(diags, Diagnostics(err)...)
	}
	diags = append(diags, uniqueNames(schemas, nodes)...)
	if err := diags.Err(); err != nil {
		return nil, err
	}
	return &Graph{Config: c, Nodes: nodes}, nil
}

// uniqueNames reports records that share a name or a table.
func uniqueNames(schemas []*load.Schema, nodes []*Type) DiagnosticSet {
	var (
		diags  DiagnosticSet
		names  = make(map[string]*load.Schema, len(schemas))
		tables = make(map[string]*Type, len(nodes))
	)
	for _, s := range schemas {
		if prev, ok := names[s.Name]; ok {
			diags = append(diags, NewStructuralError(s.Name,
				fmt.Sprintf("record %s is declared twice (first at %s)", s.Name, prev.Pos),
				recordExample(s.Name+"V2", "", "ID int64"),
				s.Pos,
			))
			continue
		}
		names[s.Name] = s
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if prev, ok := tables[n.Table()]; ok {
			diags = append(diags, NewSchemaError(n.Name, "",
				fmt.Sprintf("table %q is already used by record %s", n.Table(), prev.Name),
				directiveExample(n.Name, "table="+n.Table()+"_"+snake(n.Name)),
				n.Pos(),
			))
			continue
		}
		tables[n.Table()] = n
	}
	return diags
}

// Tables returns the table names of all nodes.
func (g *Graph) Tables() []string {
	tables := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		tables[i] = n.Table()
	}
	return tables
}
