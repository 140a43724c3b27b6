package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/compiler/gen/sql"
)

func (c *cli) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the repositories of the annotated records",
		Example: `  repogen generate --schema ./models --target ./repository
  repogen generate --schema ./records.yaml --target ./repository --manifest
  repogen generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			err := c.generate(ctx, cmd.OutOrStdout())
			if !c.opts.Watch {
				return err
			}
			if err != nil {
				c.log.Error("generation failed", "error", err)
			}
			return c.watch(ctx, cmd.OutOrStdout())
		},
	}
	genFlags(cmd)
	cmd.Flags().Bool("manifest", false, "skip unchanged files and remove stale ones")
	cmd.Flags().BoolP("watch", "w", false, "regenerate when the declarations change")
	return cmd
}

// generate runs one generation and reports its result to w.
func (c *cli) generate(ctx context.Context, w io.Writer) error {
	g, err := c.opts.graph(c.log)
	if err != nil {
		return err
	}
	res, err := sql.Generate(ctx, g)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d written, %d unchanged, %d removed\n", g.Target, len(res.Written), len(res.Skipped), len(res.Removed))
	return nil
}

// watch regenerates on every change of the declarations until ctx is done.
func (c *cli) watch(ctx context.Context, w io.Writer) error {
	dir, match, err := c.watchTarget()
	if err != nil {
		return err
	}
	fw, err := newWatcher(dir, match, c.log)
	if err != nil {
		return err
	}
	c.log.Info("watching for changes", "dir", dir)
	return fw.Run(ctx, func() {
		if err := c.generate(ctx, w); err != nil {
			c.log.Error("generation failed", "error", err)
		}
	})
}

// watchTarget returns the directory to watch and the files of it that
// trigger a generation. Generated files never do.
func (c *cli) watchTarget() (string, func(string) bool, error) {
	o := c.opts
	if o.descriptor() {
		abs, err := filepath.Abs(o.Schema)
		if err != nil {
			return "", nil, err
		}
		return filepath.Dir(abs), func(name string) bool {
			p, err := filepath.Abs(name)
			return err == nil && p == abs
		}, nil
	}
	info, err := os.Stat(o.Schema)
	if err != nil || !info.IsDir() {
		return "", nil, fmt.Errorf("watch: schema %q is not a directory", o.Schema)
	}
	return o.Schema, func(name string) bool {
		base := filepath.Base(name)
		return strings.HasSuffix(base, ".go") &&
			!strings.HasSuffix(base, "_test.go") &&
			!strings.HasSuffix(base, "_repo.go") &&
			base != "repositories.go" &&
			base != gen.ManifestFile
	}, nil
}
