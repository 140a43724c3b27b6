package gen_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/compiler/gen/sql"
	"github.com/brianporeilly/repogen/compiler/load"
)

// benchSource declares n soft-deletable records.
func benchSource(n int) string {
	var b strings.Builder
	b.WriteString("package models\n\nimport \"time\"\n")
	for i := range n {
		fmt.Fprintf(&b, `
//repogen:repository soft_delete searchable=name
type Record%d struct {
	ID        int64
	Name      string
	Email     string
	Tags      []string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
`, i)
	}
	return b.String()
}

func BenchmarkGraph_Render(b *testing.B) {
	schemas, err := load.ParseFile("models.go", benchSource(20))
	require.NoError(b, err)
	c, err := gen.NewConfig(gen.WithPackage("models"), gen.WithTarget(b.TempDir()))
	require.NoError(b, err)
	ctx := context.Background()
	for b.Loop() {
		g, err := gen.NewGraph(c, schemas...)
		require.NoError(b, err)
		generator := gen.NewJenniferGenerator(g)
		generator.WithDialect(sql.NewDialect(generator))
		_, err = generator.Render(ctx)
		require.NoError(b, err)
	}
}

func BenchmarkNewGraph(b *testing.B) {
	schemas, err := load.ParseFile("models.go", benchSource(100))
	require.NoError(b, err)
	c, err := gen.NewConfig()
	require.NoError(b, err)
	for b.Loop() {
		_, err := gen.NewGraph(c, schemas...)
		require.NoError(b, err)
	}
}
