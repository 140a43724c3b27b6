package field

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// A Type represents a storage type a declared Go type maps onto.
type Type uint8

// List of storage types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeUUID
	TypeString
	TypeInt
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint16
	TypeUint32
	TypeFloat32
	TypeFloat64
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid: "invalid",
		TypeBool:    "bool",
		TypeTime:    "time.Time",
		TypeUUID:    "uuid.UUID",
		TypeString:  "string",
		TypeInt:     "int",
		TypeInt16:   "int16",
		TypeInt32:   "int32",
		TypeInt64:   "int64",
		TypeUint16:  "uint16",
		TypeUint32:  "uint32",
		TypeFloat32: "float32",
		TypeFloat64: "float64",
	}
	pkgPaths = map[Type]string{
		TypeTime: reflect.TypeFor[time.Time]().PkgPath(),
		TypeUUID: reflect.TypeFor[uuid.UUID]().PkgPath(),
	}
	// idents maps a base type expression to its storage type.
	idents = func() map[string]Type {
		m := make(map[string]Type, endTypes)
		for t := TypeBool; t < endTypes; t++ {
			m[typeNames[t]] = t
		}
		return m
	}()
)

// String returns the Go spelling of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known storage type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Category returns the storage category of the type.
func (t Type) Category() Category {
	switch {
	case t == TypeBool:
		return CategoryBoolean
	case t == TypeTime:
		return CategoryTimestamp
	case t == TypeUUID:
		return CategoryUUID
	case t == TypeString:
		return CategoryText
	case t >= TypeInt && t <= TypeUint32:
		return CategoryInteger
	case t == TypeFloat32, t == TypeFloat64:
		return CategoryFloat
	default:
		return CategoryInvalid
	}
}

// PkgPath returns the import path of the type, or "" for builtin types.
func (t Type) PkgPath() string {
	return pkgPaths[t]
}

// Category groups storage types for diagnostics and search operators.
type Category uint8

// Storage categories.
const (
	CategoryInvalid Category = iota
	CategoryInteger
	CategoryFloat
	CategoryText
	CategoryBoolean
	CategoryTimestamp
	CategoryUUID
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategoryInteger:
		return "integer"
	case CategoryFloat:
		return "float"
	case CategoryText:
		return "text"
	case CategoryBoolean:
		return "boolean"
	case CategoryTimestamp:
		return "timestamp"
	case CategoryUUID:
		return "uuid"
	default:
		return "invalid"
	}
}

// Ordered reports whether the ordering operators (<, <=, >, >=) apply to
// columns of the category.
func (c Category) Ordered() bool {
	switch c {
	case CategoryInteger, CategoryFloat, CategoryText, CategoryTimestamp:
		return true
	}
	return false
}

// TypeInfo holds the resolved information of a declared field type.
type TypeInfo struct {
	Type     Type
	Ident    string // Declared Go expression, e.g. "*time.Time" or "[]string".
	PkgPath  string // Import path of the base type, if any.
	Optional bool   // Declared as *T.
	List     bool   // Declared as []T.
}

// String returns the declared Go expression.
func (t TypeInfo) String() string {
	if t.Ident != "" {
		return t.Ident
	}
	switch {
	case t.Optional:
		return "*" + t.Type.String()
	case t.List:
		return "[]" + t.Type.String()
	}
	return t.Type.String()
}

// ErrUnsupportedType is returned by ParseType for types outside the category table.
var ErrUnsupportedType = errors.New("field: unsupported type")

// UnsupportedTypeError describes a declared type that has no storage category.
type UnsupportedTypeError struct {
	Expr   string
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("field: unsupported type %s: %s", e.Expr, e.Reason)
}

// Is reports whether the target error matches ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(err error) bool {
	return err == ErrUnsupportedType
}

// ParseType resolves a Go type expression such as "int64", "*time.Time" or
// "[]string" to its TypeInfo. Package qualifiers must already be normalized to
// "time" and "uuid".
func ParseType(expr string) (*TypeInfo, error) {
	x, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, &UnsupportedTypeError{Expr: expr, Reason: "not a type expression"}
	}
	info := &TypeInfo{Ident: types.ExprString(x)}
	switch e := x.(type) {
	case *ast.StarExpr:
		info.Optional = true
		x = e.X
	case *ast.ArrayType:
		if e.Len != nil {
			return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: "fixed-size arrays are not supported"}
		}
		info.List = true
		x = e.Elt
	}
	base := types.ExprString(x)
	if base == "rune" {
		base = TypeInt32.String()
	}
	switch x.(type) {
	case *ast.Ident, *ast.SelectorExpr:
	case *ast.MapType:
		return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: "maps are not supported"}
	case *ast.StarExpr, *ast.ArrayType:
		return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: "nested optional or list types are not supported"}
	case *ast.StructType:
		return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: "inline structs are not supported"}
	case *ast.InterfaceType:
		return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: "interfaces are not supported"}
	default:
		return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: "composite types are not supported"}
	}
	t, ok := idents[base]
	if !ok {
		return nil, &UnsupportedTypeError{Expr: info.Ident, Reason: unsupportedReason(base, info.List)}
	}
	info.Type = t
	info.PkgPath = t.PkgPath()
	return info, nil
}

func unsupportedReason(base string, list bool) string {
	switch {
	case base == "byte" || base == "uint8":
		if list {
			return "byte slices are not supported"
		}
		return "8-bit integers have no matching column type"
	case base == "int8":
		return "8-bit integers have no matching column type"
	case base == "uint" || base == "uint64" || base == "uintptr":
		return "unsigned 64-bit integers overflow BIGINT"
	case base == "any" || base == "error":
		return "interfaces are not supported"
	case base == "complex64" || base == "complex128":
		return "no matching column type"
	case strings.Contains(base, "."):
		return fmt.Sprintf("named type %s is not in the category table", base)
	default:
		return fmt.Sprintf("unknown type %s", base)
	}
}

// SupportedTypes returns the category table rendered for diagnostics,
// one "category: types" line per category.
func SupportedTypes() []string {
	return []string{
		"integer: int, int16, int32 (rune), int64, uint16, uint32",
		"float: float32, float64",
		"text: string",
		"boolean: bool",
		"timestamp: time.Time",
		"uuid: uuid.UUID",
		"optional: *T for any type above",
		"list: []T for any type above",
	}
}
