package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brianporeilly/repogen/compiler/load"
	"github.com/brianporeilly/repogen/dialect/sql"
	"github.com/brianporeilly/repogen/schema/field"
)

// validate runs every declaration rule and returns all failures.
func (t *Type) validate() DiagnosticSet {
	if t.schema.Kind != load.KindStruct {
		return DiagnosticSet{NewStructuralError(t.Name,
			fmt.Sprintf("%s declarations cannot be repositories: only structs with named fields are supported", t.schema.Kind),
			recordExample(t.Name, "", "ID int64", "Name string"),
			t.Pos(),
		)}
	}
	var diags DiagnosticSet
	if !exported(t.Name) {
		diags = append(diags, NewStructuralError(t.Name,
			fmt.Sprintf("record name %q is not an exported Go identifier", t.Name),
			recordExample(exportedName(t.Name), "", "ID int64", "Name string"),
			t.Pos(),
		))
	}
	for _, f := range t.Fields {
		diags = append(diags, t.validateField(f)...)
	}
	diags = append(diags, t.validateNames()...)
	diags = append(diags, t.validateKey()...)
	diags = append(diags, t.validateSoftDelete()...)
	diags = append(diags, t.validateColumns()...)
	diags = append(diags, t.validateSearch()...)
	return diags
}

func (t *Type) validateField(f *Field) DiagnosticSet {
	var diags DiagnosticSet
	if f.def.Embedded {
		return DiagnosticSet{{
			Kind:    KindStructural,
			Type:    t.Name,
			Field:   f.Name,
			Message: fmt.Sprintf("embedded field %s: fields must be named", f.def.Type),
			Example: recordExample(t.Name, "", "ID int64", fmt.Sprintf("%s %s", f.Name, f.def.Type)),
			Pos:     f.Pos(),
		}}
	}
	if !exported(f.Name) {
		name, column := exportedName(f.Name), f.Column
		if !sql.ValidColumn(column) {
			column = snake(name)
		}
		diags = append(diags, NewSchemaError(t.Name, f.Name,
			fmt.Sprintf("field name %q is not an exported Go identifier", f.Name),
			recordExample(t.Name, "", "ID int64", fmt.Sprintf("%s %s `repo:\"column=%s\"`", name, f.def.Type, column)),
			f.Pos(),
		))
	}
	for _, k := range f.def.Annotations.Keys() {
		if !slices.Contains(fieldKeys, k) {
			diags = append(diags, NewAnnotationError(t.Name, f.Name,
				fmt.Sprintf("unknown field option %q (recognized: %s)", k, strings.Join(fieldKeys, ", ")),
				recordExample(t.Name, "", "ID int64 `repo:\"primary_key\"`", fmt.Sprintf("%s %s `repo:\"column=%s\"`", f.Name, f.def.Type, snake(f.Name))),
				f.Pos(),
			))
		}
	}
	if col, ok := f.def.Annotations[AnnotationColumn]; ok && col == "" {
		diags = append(diags, NewAnnotationError(t.Name, f.Name, "option column requires a value",
			recordExample(t.Name, "", "ID int64", fmt.Sprintf("%s %s `repo:\"column=%s\"`", f.Name, f.def.Type, snake(f.Name))),
			f.Pos(),
		))
	}
	if v, ok := f.def.Annotations[AnnotationPrimaryKey]; ok {
		if _, err := flag(v); err != nil {
			diags = append(diags, NewAnnotationError(t.Name, f.Name,
				fmt.Sprintf("option primary_key expects no value or a boolean, got %q", v),
				recordExample(t.Name, "", fmt.Sprintf("%s int64 `repo:\"primary_key\"`", f.Name)),
				f.Pos(),
			))
		}
	}
	if f.err != nil {
		diags = append(diags, NewSchemaError(t.Name, f.Name, unsupportedMessage(f.err), unsupportedExample(t.Name, f), f.Pos()))
	}
	if !sql.ValidColumn(f.Column) {
		diags = append(diags, NewSchemaError(t.Name, f.Name,
			fmt.Sprintf("column name %q is not a valid SQL identifier", f.Column),
			recordExample(t.Name, "", "ID int64", fmt.Sprintf("%s %s `repo:\"column=%s\"`", f.Name, f.def.Type, snake(f.Name))),
			f.Pos(),
		))
	}
	return diags
}

func (t *Type) validateNames() DiagnosticSet {
	var (
		diags DiagnosticSet
		seen  = make(map[string]bool, len(t.Fields))
	)
	for _, f := range t.Fields {
		if f.def.Embedded {
			continue
		}
		if !seen[f.Name] {
			seen[f.Name] = true
			continue
		}
		diags = append(diags, NewSchemaError(t.Name, f.Name,
			fmt.Sprintf("field %s is declared more than once: field names must be unique within a record", f.Name),
			recordExample(t.Name, "", "ID int64", fmt.Sprintf("%s %s", f.Name, f.def.Type), fmt.Sprintf("Other%s %s `repo:\"column=%s\"`", f.Name, f.def.Type, f.Column)),
			f.Pos(),
		))
	}
	return diags
}

func (t *Type) validateKey() DiagnosticSet {
	var keys []*Field
	for _, f := range t.Fields {
		if f.IsPK() {
			keys = append(keys, f)
		}
	}
	switch pk := t.Repo.PrimaryKey; {
	case pk != "" && len(keys) == 0:
		return DiagnosticSet{NewAnnotationError(t.Name, "",
			fmt.Sprintf("option primary_key names unknown field %q", pk),
			recordExample(t.Name, "primary_key=ID", "ID int64"),
			t.Pos(),
		)}
	case len(keys) == 0:
		return DiagnosticSet{NewSchemaError(t.Name, "",
			"missing primary key: declare an ID int64 field or mark one with `repo:\"primary_key\"`",
			recordExample(t.Name, "", "ID int64", "Name string"),
			t.Pos(),
		)}
	case len(keys) > 1:
		names := make([]string, len(keys))
		for i, f := range keys {
			names[i] = f.Name
		}
		return DiagnosticSet{NewSchemaError(t.Name, "",
			fmt.Sprintf("multiple primary keys (%s): exactly one field may be the primary key", strings.Join(names, ", ")),
			recordExample(t.Name, "", fmt.Sprintf("%s int64 `repo:\"primary_key\"`", keys[0].Name), "Name string"),
			keys[1].Pos(),
		)}
	}
	id := keys[0]
	if id.Type != nil && (id.Type.Type != field.TypeInt64 || id.Type.Optional || id.Type.List) {
		return DiagnosticSet{NewSchemaError(t.Name, id.Name,
			fmt.Sprintf("primary key %s must be int64, got %s", id.Name, id.Type),
			recordExample(t.Name, "", id.Name+" int64"),
			id.Pos(),
		)}
	}
	return nil
}

func (t *Type) validateSoftDelete() DiagnosticSet {
	if !t.Repo.SoftDelete {
		return nil
	}
	if t.DeletedAt == nil {
		return DiagnosticSet{NewSchemaError(t.Name, "DeletedAt",
			fmt.Sprintf("soft_delete requires a DeletedAt *time.Time field stored in column %s", ColumnDeletedAt),
			recordExample(t.Name, "soft_delete", "ID int64", "DeletedAt *time.Time"),
			t.Pos(),
		)}
	}
	if m := t.DeletedAt; m.Type != nil && (m.Type.Type != field.TypeTime || !m.Type.Optional) {
		return DiagnosticSet{NewSchemaError(t.Name, m.Name,
			fmt.Sprintf("soft-delete marker %s must be *time.Time, got %s", m.Name, m.Type),
			recordExample(t.Name, "soft_delete", "ID int64", m.Name+" *time.Time"),
			m.Pos(),
		)}
	}
	return nil
}

func (t *Type) validateColumns() DiagnosticSet {
	var (
		diags DiagnosticSet
		seen  = make(map[string]*Field, len(t.Fields))
	)
	for _, f := range t.Fields {
		if f.def.Embedded {
			continue
		}
		prev, ok := seen[f.Column]
		if !ok {
			seen[f.Column] = f
			continue
		}
		diags = append(diags, NewSchemaError(t.Name, f.Name,
			fmt.Sprintf("column %q of field %s duplicates field %s", f.Column, f.Name, prev.Name),
			recordExample(t.Name, "", "ID int64", fmt.Sprintf("%s %s `repo:\"column=%s_%s\"`", f.Name, f.def.Type, f.Column, snake(f.Name))),
			f.Pos(),
		))
	}
	return diags
}

func (t *Type) validateSearch() DiagnosticSet {
	var diags DiagnosticSet
	for _, name := range t.Repo.Searchable {
		f, ok := t.FieldByName(name)
		switch {
		case !ok:
			diags = append(diags, NewAnnotationError(t.Name, "",
				fmt.Sprintf("searchable names unknown column %q", name),
				recordExample(t.Name, "searchable=name", "ID int64", "Name string"),
				t.Pos(),
			))
		case f.Type != nil && (f.Type.Type != field.TypeString || f.Type.List):
			diags = append(diags, NewSchemaError(t.Name, f.Name,
				fmt.Sprintf("searchable column %q must be a string column, got %s", f.Column, f.Type),
				recordExample(t.Name, "searchable="+f.Column, "ID int64", f.Name+" string"),
				f.Pos(),
			))
		}
	}
	for _, name := range t.Repo.Filterable {
		f, ok := t.FieldByName(name)
		switch {
		case !ok:
			diags = append(diags, NewAnnotationError(t.Name, "",
				fmt.Sprintf("filterable names unknown column %q", name),
				recordExample(t.Name, "filterable=status", "ID int64", "Status string"),
				t.Pos(),
			))
		case f.IsList():
			diags = append(diags, NewSchemaError(t.Name, f.Name,
				fmt.Sprintf("filterable column %q cannot be a list", f.Column),
				recordExample(t.Name, "filterable="+f.Column, "ID int64", f.Name+" string"),
				f.Pos(),
			))
		}
	}
	return diags
}

func unsupportedMessage(err error) string {
	categories := make([]string, 0, 8)
	for _, line := range field.SupportedTypes() {
		name, _, _ := strings.Cut(line, ":")
		categories = append(categories, name)
	}
	return fmt.Sprintf("%s (supported categories: %s); store composite data as JSON text", strings.TrimPrefix(err.Error(), "field: "), strings.Join(categories, ", "))
}

func unsupportedExample(typeName string, f *Field) string {
	var b strings.Builder
	b.WriteString("// Supported types:\n")
	for _, line := range field.SupportedTypes() {
		b.WriteString("//   " + line + "\n")
	}
	b.WriteString("// Encode composite values as JSON text:\n")
	b.WriteString(recordExample(typeName, "", "ID int64", fmt.Sprintf("%s string `repo:\"column=%s\"` // JSON-encoded", f.Name, f.Column)))
	return b.String()
}

// recordExample renders a minimal record declaration. Each field is given
// as "Name Type [tag] [// comment]".
func recordExample(name, options string, fields ...string) string {
	var (
		b     strings.Builder
		width int
	)
	for _, f := range fields {
		n, _, _ := strings.Cut(f, " ")
		width = max(width, len(n))
	}
	b.WriteString(strings.TrimSpace(load.Directive + " " + options))
	fmt.Fprintf(&b, "\ntype %s struct {\n", name)
	for _, f := range fields {
		n, rest, _ := strings.Cut(f, " ")
		fmt.Fprintf(&b, "\t%-*s %s\n", width, n, rest)
	}
	b.WriteString("\t// ...\n}")
	return b.String()
}
