package gen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/brianporeilly/repogen/compiler/load"
	"github.com/brianporeilly/repogen/dialect/sql"
)

// Recognized annotation keys.
const (
	AnnotationTable      = "table"
	AnnotationSoftDelete = "soft_delete"
	AnnotationSearchable = "searchable"
	AnnotationFilterable = "filterable"
	AnnotationPrimaryKey = "primary_key"
	AnnotationColumn     = "column"
)

var (
	recordKeys = []string{AnnotationTable, AnnotationSoftDelete, AnnotationSearchable, AnnotationFilterable, AnnotationPrimaryKey}
	fieldKeys  = []string{AnnotationPrimaryKey, AnnotationColumn}
)

// RepositoryConfig is the record-level configuration resolved from the
// repository directive.
type RepositoryConfig struct {
	// Name is the record name.
	Name string
	// Table is the table name, explicit or derived.
	Table string
	// TableExplicit reports whether Table came from the table annotation.
	TableExplicit bool
	// SoftDelete enables the deleted_at marker semantics.
	SoftDelete bool
	// Searchable lists the fields matched by a search text query.
	Searchable []string
	// Filterable lists the fields search filters may reference. Nil means
	// every scalar column.
	Filterable []string
	// PrimaryKey names the primary key field, if set at record level.
	PrimaryKey string
}

// ParseRepositoryConfig resolves the record-level annotations of a declaration.
// The returned config is usable even when diagnostics are reported.
func ParseRepositoryConfig(s *load.Schema) (*RepositoryConfig, DiagnosticSet) {
	var (
		diags DiagnosticSet
		a     = s.Annotations
		rc    = &RepositoryConfig{Name: s.Name}
	)
	for _, k := range a.Keys() {
		if !slices.Contains(recordKeys, k) {
			diags = append(diags, NewAnnotationError(s.Name, "",
				fmt.Sprintf("unknown repository option %q (recognized: %s)", k, strings.Join(recordKeys, ", ")),
				directiveExample(s.Name, "table="+tableName(s.Name)+" soft_delete searchable=name"),
				s.Pos,
			))
		}
	}
	switch table, ok := a[AnnotationTable]; {
	case ok && table == "":
		diags = append(diags, NewAnnotationError(s.Name, "", "option table requires a value",
			directiveExample(s.Name, "table="+tableName(s.Name)), s.Pos))
		rc.Table = tableName(s.Name)
	case ok:
		rc.Table, rc.TableExplicit = table, true
	default:
		rc.Table = tableName(s.Name)
	}
	if !sql.ValidTable(rc.Table) {
		diags = append(diags, NewSchemaError(s.Name, "",
			fmt.Sprintf("table name %q is not a valid SQL identifier", rc.Table),
			directiveExample(s.Name, "table="+snake(s.Name)),
			s.Pos,
		))
	}
	if v, ok := a[AnnotationSoftDelete]; ok {
		enabled, err := flag(v)
		if err != nil {
			diags = append(diags, NewAnnotationError(s.Name, "",
				fmt.Sprintf("option soft_delete expects no value or a boolean, got %q", v),
				directiveExample(s.Name, "soft_delete"), s.Pos))
		}
		rc.SoftDelete = enabled
	}
	rc.Searchable = a.List(AnnotationSearchable)
	if a.Has(AnnotationFilterable) {
		rc.Filterable = a.List(AnnotationFilterable)
		if rc.Filterable == nil {
			rc.Filterable = []string{}
		}
	}
	rc.PrimaryKey = a[AnnotationPrimaryKey]
	return rc, diags
}

// flag parses a flag annotation value. An empty value enables the flag.
func flag(v string) (bool, error) {
	if v == "" {
		return true, nil
	}
	return strconv.ParseBool(v)
}

// directiveExample renders a record declaration carrying the given directive options.
func directiveExample(name, options string) string {
	return recordExample(name, options, "ID int64")
}
