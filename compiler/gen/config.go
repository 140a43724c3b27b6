package gen

import (
	"io"
	"log/slog"
	"runtime"
)

// DefaultHeader is written at the top of every generated file.
const DefaultHeader = "// Code generated by repogen. DO NOT EDIT."

// Config holds the global codegen configuration shared by all types.
type Config struct {
	// Target is the directory generated files are written to.
	Target string
	// Package is the name of the generated Go package.
	Package string
	// SchemaPkg is the import path of the package declaring the records.
	// Empty means the records live in the generated package.
	SchemaPkg string
	// Records emits the record structs themselves. Declarations read from
	// YAML descriptors have no Go type to reference.
	Records bool
	// Header is the comment placed at the top of each generated file.
	Header string
	// Features holds the enabled feature-flags.
	Features []Feature
	// Workers bounds the number of records processed concurrently.
	Workers int
	// Manifest enables the content-hash manifest that skips rewriting
	// unchanged files.
	Manifest bool
	// Logger receives progress logs. Nil discards them.
	Logger *slog.Logger
}

// NewConfig creates a config with the default features and applies opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, f := range AllFeatures {
		if f.Default {
			c.Features = append(c.Features, f)
		}
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FeatureEnabled reports if the given feature name is enabled.
func (c Config) FeatureEnabled(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// logger returns the configured logger or one that discards output.
func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// workers returns the concurrency limit, at least 1.
func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
