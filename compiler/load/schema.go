package load

import (
	"fmt"
	"sort"
	"strings"
)

// Directive is the comment prefix that marks a type declaration as a repository record.
const Directive = "//repogen:repository"

// TagKey is the struct tag key holding field-level annotations.
const TagKey = "repo"

// Kind describes the shape of a declared type.
type Kind string

// Declaration kinds.
const (
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindDefined   Kind = "defined" // named type over a non-struct type, e.g. an enumeration
	KindAlias     Kind = "alias"
	KindOther     Kind = "other"
)

// Position is a source location.
type Position struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// String returns the position in file:line:column form.
func (p Position) String() string {
	switch {
	case p.Filename == "" && p.Line == 0:
		return "-"
	case p.Line == 0:
		return p.Filename
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.Filename, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
}

// IsValid reports whether the position carries a location.
func (p Position) IsValid() bool { return p.Filename != "" || p.Line > 0 }

// Schema is a record declaration loaded from Go source or a YAML descriptor.
type Schema struct {
	Name        string      `json:"name,omitempty"`
	Kind        Kind        `json:"kind,omitempty"`
	Pos         Position    `json:"pos"`
	Annotations Annotations `json:"annotations,omitempty"`
	Fields      []*Field    `json:"fields,omitempty"`
	Comment     string      `json:"comment,omitempty"`
}

// Field is one declared field of a record.
type Field struct {
	Name        string      `json:"name,omitempty"`
	Type        string      `json:"type,omitempty"` // Go type expression with normalized qualifiers.
	Embedded    bool        `json:"embedded,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
	Pos         Position    `json:"pos"`
	Comment     string      `json:"comment,omitempty"`
}

// Field returns the declared field with the given name, or nil.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Annotations maps annotation keys to their raw values. Flags such as
// soft_delete are stored with an empty value.
type Annotations map[string]string

// Has reports whether the key is present.
func (a Annotations) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// List splits a comma-separated value, dropping empty items.
func (a Annotations) List(key string) []string {
	v, ok := a[key]
	if !ok {
		return nil
	}
	var items []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// Keys returns the annotation keys in sorted order.
func (a Annotations) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseAnnotations splits "k=v" items separated by sep. Repeated keys keep
// the last value.
func parseAnnotations(s string, sep func(rune) bool, into Annotations) {
	for _, item := range strings.FieldsFunc(s, sep) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		k, v, _ := strings.Cut(item, "=")
		into[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
}

// ParseDirective parses the arguments of a repository directive line such as
// "//repogen:repository table=users soft_delete searchable=name,email".
// It reports false if the line is not a repository directive.
func ParseDirective(line string, into Annotations) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), Directive)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return false
	}
	parseAnnotations(rest, isSpace, into)
	return true
}

// ParseTag parses a field tag value such as "primary_key,column=user_id".
func ParseTag(tag string) Annotations {
	a := make(Annotations)
	parseAnnotations(tag, func(r rune) bool { return r == ',' }, a)
	return a
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }
