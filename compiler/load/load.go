package load

import (
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"slices"

	"golang.org/x/tools/go/packages"
)

// Config holds the configuration for loading record declarations.
type Config struct {
	// Path is the package pattern or directory to load.
	Path string
	// Names restricts loading to the given record names.
	Names []string
	// BuildFlags are passed to the go command.
	BuildFlags []string
}

// SchemaSpec holds the loaded declarations and the package they came from.
type SchemaSpec struct {
	Schemas []*Schema
	PkgPath string
	PkgName string
	Dir     string
}

// Load loads the repository declarations of the package at c.Path.
func (c *Config) Load() (*SchemaSpec, error) {
	if c.Path == "" {
		return nil, errors.New("load: missing package path")
	}
	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Fset:       fset,
		BuildFlags: c.BuildFlags,
		Tests:      false,
	}, c.Path)
	if err != nil {
		return nil, fmt.Errorf("load: loading package %q: %w", c.Path, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("load: no package found for %q", c.Path)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("load: pattern %q matched %d packages, expected one", c.Path, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		errs := make([]error, 0, len(pkg.Errors))
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("load: package %s: %w", pkg.PkgPath, errors.Join(errs...))
	}
	spec := &SchemaSpec{PkgPath: pkg.PkgPath, PkgName: pkg.Name}
	if len(pkg.GoFiles) > 0 {
		spec.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	for _, file := range pkg.Syntax {
		spec.Schemas = append(spec.Schemas, Extract(fset, file)...)
	}
	if err := c.filter(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (c *Config) filter(spec *SchemaSpec) error {
	if len(c.Names) == 0 {
		return nil
	}
	kept := spec.Schemas[:0]
	for _, s := range spec.Schemas {
		if slices.Contains(c.Names, s.Name) {
			kept = append(kept, s)
		}
	}
	for _, name := range c.Names {
		if !slices.ContainsFunc(kept, func(s *Schema) bool { return s.Name == name }) {
			return fmt.Errorf("load: record %q not found in %s", name, spec.PkgPath)
		}
	}
	spec.Schemas = kept
	return nil
}
