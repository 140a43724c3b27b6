package load

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// canonical maps import paths of supported qualified types to the qualifier
// used by the category table.
var canonical = map[string]string{
	"time":                   "time",
	"github.com/google/uuid": "uuid",
}

// ParseFile parses a single Go source file and returns the declarations
// marked with the repository directive. src follows the rules of
// go/parser.ParseFile.
func ParseFile(filename string, src any) ([]*Schema, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	return Extract(fset, file), nil
}

// Extract returns the repository declarations of a parsed file in source order.
func Extract(fset *token.FileSet, file *ast.File) []*Schema {
	imports := fileImports(file)
	var schemas []*Schema
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			// A lone "type X ..." declaration carries its comment on the GenDecl.
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			annotations, ok := directives(doc)
			if !ok {
				continue
			}
			s := &Schema{
				Name:        ts.Name.Name,
				Kind:        kindOf(ts),
				Pos:         position(fset, ts.Name.Pos()),
				Annotations: annotations,
				Comment:     strings.TrimSpace(doc.Text()),
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				s.Fields = structFields(fset, st, imports)
			}
			schemas = append(schemas, s)
		}
	}
	return schemas
}

// directives collects the annotations of every directive line in the group.
func directives(doc *ast.CommentGroup) (Annotations, bool) {
	if doc == nil {
		return nil, false
	}
	var (
		found       bool
		annotations = make(Annotations)
	)
	for _, c := range doc.List {
		if ParseDirective(c.Text, annotations) {
			found = true
		}
	}
	return annotations, found
}

func kindOf(ts *ast.TypeSpec) Kind {
	if ts.Assign.IsValid() {
		return KindAlias
	}
	switch ts.Type.(type) {
	case *ast.StructType:
		return KindStruct
	case *ast.InterfaceType:
		return KindInterface
	case *ast.Ident, *ast.SelectorExpr, *ast.ArrayType, *ast.MapType, *ast.FuncType, *ast.ChanType:
		return KindDefined
	default:
		return KindOther
	}
}

func structFields(fset *token.FileSet, st *ast.StructType, imports map[string]string) []*Field {
	var fields []*Field
	for _, f := range st.Fields.List {
		var annotations Annotations
		if f.Tag != nil {
			if tag, err := strconv.Unquote(f.Tag.Value); err == nil {
				if v, ok := reflect.StructTag(tag).Lookup(TagKey); ok {
					if v == "-" {
						continue
					}
					annotations = ParseTag(v)
				}
			}
		}
		typ := typeString(f.Type, imports)
		comment := strings.TrimSpace(f.Doc.Text())
		if len(f.Names) == 0 {
			fields = append(fields, &Field{
				Name:        strings.TrimPrefix(typ, "*"),
				Type:        typ,
				Embedded:    true,
				Annotations: annotations,
				Pos:         position(fset, f.Type.Pos()),
				Comment:     comment,
			})
			continue
		}
		for _, name := range f.Names {
			fields = append(fields, &Field{
				Name:        name.Name,
				Type:        typ,
				Annotations: annotations,
				Pos:         position(fset, name.Pos()),
				Comment:     comment,
			})
		}
	}
	return fields
}

// fileImports maps the local package name of each import to its path.
func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		imports[name] = p
	}
	return imports
}

// typeString renders a type expression, replacing the local qualifier of
// known packages with its canonical name.
func typeString(x ast.Expr, imports map[string]string) string {
	switch x := x.(type) {
	case *ast.StarExpr:
		return "*" + typeString(x.X, imports)
	case *ast.ArrayType:
		if x.Len == nil {
			return "[]" + typeString(x.Elt, imports)
		}
		return "[" + types.ExprString(x.Len) + "]" + typeString(x.Elt, imports)
	case *ast.SelectorExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			if q, ok := canonical[imports[id.Name]]; ok {
				return q + "." + x.Sel.Name
			}
		}
	}
	return types.ExprString(x)
}

func position(fset *token.FileSet, pos token.Pos) Position {
	p := fset.Position(pos)
	return Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}
