package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/compiler/load"
)

// options is the configuration of a generation run, read from flags,
// environment variables and repogen.yaml.
type options struct {
	Schema   string   `mapstructure:"schema"`
	Target   string   `mapstructure:"target"`
	Package  string   `mapstructure:"package"`
	Header   string   `mapstructure:"header"`
	Records  []string `mapstructure:"records"`
	Features []string `mapstructure:"features"`
	Disable  []string `mapstructure:"disable"`
	Tags     []string `mapstructure:"tags"`
	Workers  int      `mapstructure:"workers"`
	Manifest bool     `mapstructure:"manifest"`
	Watch    bool     `mapstructure:"watch"`
	Verbose  bool     `mapstructure:"verbose"`
}

// descriptor reports whether the schema is a YAML descriptor file.
func (o *options) descriptor() bool {
	ext := strings.ToLower(filepath.Ext(o.Schema))
	return ext == ".yaml" || ext == ".yml"
}

// load reads the record declarations named by the options.
func (o *options) load() (*load.SchemaSpec, error) {
	if !o.descriptor() {
		cfg := &load.Config{Path: o.Schema, Names: o.Records}
		if len(o.Tags) > 0 {
			cfg.BuildFlags = []string{"-tags", strings.Join(o.Tags, ",")}
		}
		return cfg.Load()
	}
	spec, err := load.ReadYAML(o.Schema)
	if err != nil {
		return nil, err
	}
	if len(o.Records) > 0 {
		spec.Schemas = slices.DeleteFunc(spec.Schemas, func(s *load.Schema) bool {
			return !slices.Contains(o.Records, s.Name)
		})
		if len(spec.Schemas) != len(o.Records) {
			return nil, fmt.Errorf("load: some of the records %s are not declared in %s", strings.Join(o.Records, ", "), o.Schema)
		}
	}
	return spec, nil
}

// config builds the generator configuration for the loaded declarations.
// Records declared in Go are referenced from their package unless the
// target is that package. Records read from a descriptor are emitted
// along with their repositories.
func (o *options) config(spec *load.SchemaSpec, log *slog.Logger) (*gen.Config, error) {
	opts := []gen.Option{
		gen.WithLogger(log),
		gen.WithManifest(o.Manifest),
	}
	pkg := o.Package
	switch {
	case o.descriptor():
		opts = append(opts, gen.WithRecords(true))
		if pkg == "" {
			pkg = spec.PkgName
		}
	case o.Target == "" || samePath(o.Target, spec.Dir):
		if pkg == "" {
			pkg = spec.PkgName
		}
	default:
		opts = append(opts, gen.WithSchemaPkg(spec.PkgPath))
	}
	if o.Target != "" {
		opts = append(opts, gen.WithTarget(o.Target))
	}
	if pkg != "" {
		opts = append(opts, gen.WithPackage(pkg))
	}
	if o.Header != "" {
		opts = append(opts, gen.WithHeader(o.Header))
	}
	if o.Workers > 0 {
		opts = append(opts, gen.WithWorkers(o.Workers))
	}
	if len(o.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(o.Features...))
	}
	if len(o.Disable) > 0 {
		opts = append(opts, gen.WithoutFeatures(o.Disable...))
	}
	return gen.NewConfig(opts...)
}

// graph loads and validates the declarations.
func (o *options) graph(log *slog.Logger) (*gen.Graph, error) {
	spec, err := o.load()
	if err != nil {
		return nil, err
	}
	cfg, err := o.config(spec, log)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(cfg, spec.Schemas...)
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	a, errA := filepath.Abs(a)
	b, errB := filepath.Abs(b)
	return errA == nil && errB == nil && a == b
}
