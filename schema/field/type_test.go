package field_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen/schema/field"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		expr     string
		typ      field.Type
		optional bool
		list     bool
		category field.Category
	}{
		{"int64", field.TypeInt64, false, false, field.CategoryInteger},
		{"int", field.TypeInt, false, false, field.CategoryInteger},
		{"int16", field.TypeInt16, false, false, field.CategoryInteger},
		{"uint32", field.TypeUint32, false, false, field.CategoryInteger},
		{"rune", field.TypeInt32, false, false, field.CategoryInteger},
		{"float64", field.TypeFloat64, false, false, field.CategoryFloat},
		{"string", field.TypeString, false, false, field.CategoryText},
		{"bool", field.TypeBool, false, false, field.CategoryBoolean},
		{"time.Time", field.TypeTime, false, false, field.CategoryTimestamp},
		{"uuid.UUID", field.TypeUUID, false, false, field.CategoryUUID},
		{"*time.Time", field.TypeTime, true, false, field.CategoryTimestamp},
		{"*string", field.TypeString, true, false, field.CategoryText},
		{"*rune", field.TypeInt32, true, false, field.CategoryInteger},
		{"[]string", field.TypeString, false, true, field.CategoryText},
		{"[]int64", field.TypeInt64, false, true, field.CategoryInteger},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			info, err := field.ParseType(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, info.Type)
			assert.Equal(t, tt.optional, info.Optional)
			assert.Equal(t, tt.list, info.List)
			assert.Equal(t, tt.category, info.Type.Category())
			assert.Equal(t, tt.expr, info.String())
		})
	}
}

func TestParseTypeUnsupported(t *testing.T) {
	tests := []struct {
		expr   string
		reason string
	}{
		{"map[string]string", "maps are not supported"},
		{"[]byte", "byte slices are not supported"},
		{"int8", "8-bit integers"},
		{"uint64", "overflow BIGINT"},
		{"[4]int", "fixed-size arrays"},
		{"**string", "nested optional"},
		{"[]*string", "nested optional"},
		{"struct{}", "inline structs"},
		{"interface{}", "interfaces"},
		{"any", "interfaces"},
		{"json.RawMessage", "named type json.RawMessage"},
		{"Address", "unknown type Address"},
		{"func()", "composite types"},
		{"complex128", "no matching column type"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := field.ParseType(tt.expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, field.ErrUnsupportedType))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestType(t *testing.T) {
	assert.False(t, field.TypeInvalid.Valid())
	assert.True(t, field.TypeFloat64.Valid())
	assert.Equal(t, "invalid", field.Type(200).String())
	assert.Equal(t, "time", field.TypeTime.PkgPath())
	assert.Equal(t, "github.com/google/uuid", field.TypeUUID.PkgPath())
	assert.Empty(t, field.TypeString.PkgPath())
	assert.Equal(t, field.CategoryInvalid, field.TypeInvalid.Category())
}

func TestCategoryOrdered(t *testing.T) {
	for c, ordered := range map[field.Category]bool{
		field.CategoryInteger:   true,
		field.CategoryFloat:     true,
		field.CategoryText:      true,
		field.CategoryTimestamp: true,
		field.CategoryBoolean:   false,
		field.CategoryUUID:      false,
		field.CategoryInvalid:   false,
	} {
		assert.Equal(t, ordered, c.Ordered(), c.String())
	}
}

func TestTypeInfo(t *testing.T) {
	info := field.TypeInfo{Type: field.TypeInt32, List: true}
	assert.Equal(t, "[]int32", info.String())

	info = field.TypeInfo{Type: field.TypeTime, Optional: true}
	assert.Equal(t, "*time.Time", info.String())

	assert.Len(t, field.SupportedTypes(), 8)
}
