package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/compiler/gen/sql"
)

func (c *cli) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the annotated records without writing any file",
		Long: `check loads and validates the record declarations, and renders the
repositories in memory. Every invalid declaration is reported with an
example of its corrected form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := c.opts.graph(c.log)
			if err != nil {
				return err
			}
			generator := gen.NewJenniferGenerator(g)
			generator.WithDialect(sql.NewDialect(generator))
			files, err := generator.Render(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d records, %d files\n", len(g.Nodes), len(files))
			return nil
		},
	}
	genFlags(cmd)
	return cmd
}
