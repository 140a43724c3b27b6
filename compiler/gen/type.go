package gen

import (
	"github.com/brianporeilly/repogen/compiler/load"
	"github.com/brianporeilly/repogen/schema/field"
)

// Role is the structural role of a field in its table.
type Role uint8

// Field roles.
const (
	RolePlain Role = iota
	RolePrimaryKey
	RoleAuditCreated
	RoleAuditUpdated
	RoleSoftDelete
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case RolePrimaryKey:
		return "primary-key"
	case RoleAuditCreated:
		return "audit-created"
	case RoleAuditUpdated:
		return "audit-updated"
	case RoleSoftDelete:
		return "soft-delete-marker"
	default:
		return "plain"
	}
}

// Conventional column names.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnDeletedAt = "deleted_at"
)

// The following types and their exported methods are used by the dialect
// generators to emit the repositories.
type (
	// Type is a validated repository record: its table configuration and
	// classified fields.
	Type struct {
		*Config
		schema *load.Schema
		// Name holds the record name.
		Name string
		// Repo holds the resolved repository configuration.
		Repo *RepositoryConfig
		// ID holds the primary key field.
		ID *Field
		// Fields holds all fields, including ID, in declaration order.
		Fields []*Field
		fields map[string]*Field
		// CreatedAt, UpdatedAt and DeletedAt hold the audit and
		// soft-delete columns, if present.
		CreatedAt *Field
		UpdatedAt *Field
		DeletedAt *Field
	}

	// Field is a classified record field.
	Field struct {
		def *load.Field
		// Name is the Go name of the field.
		Name string
		// Column is the name of the column in the table.
		Column string
		// Type holds the resolved storage type. It is nil for fields
		// whose declared type is unsupported.
		Type *field.TypeInfo
		// Role is the structural role of the field.
		Role Role
		// Position is the index of the field in the declaration.
		Position int
		// Comment is the field documentation.
		Comment string
		// err records why the declared type could not be resolved.
		err error
	}
)

// NewType creates a new type from the given declaration. It runs the
// attribute, classification and validation passes and returns every
// problem found as a DiagnosticSet.
func NewType(c *Config, schema *load.Schema) (*Type, error) {
	if c == nil {
		c, _ = NewConfig()
	}
	repo, diags := ParseRepositoryConfig(schema)
	t := &Type{
		Config: c,
		schema: schema,
		Name:   schema.Name,
		Repo:   repo,
		fields: make(map[string]*Field, len(schema.Fields)),
	}
	if schema.Kind == load.KindStruct {
		t.classify()
	}
	diags = append(diags, t.validate()...)
	if err := diags.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Table returns the table name of the type.
func (t Type) Table() string { return t.Repo.Table }

// SoftDelete reports whether the repository soft-deletes rows.
func (t Type) SoftDelete() bool { return t.Repo.SoftDelete }

// Pos returns the position of the declaration.
func (t Type) Pos() load.Position { return t.schema.Pos }

// Comment returns the record documentation.
func (t Type) Comment() string { return t.schema.Comment }

// Label returns the snake_case label of the type, used for file names.
func (t Type) Label() string { return snake(t.Name) }

// Receiver returns the receiver name of the repository.
func (t Type) Receiver() string { return receiver(t.RepositoryName()) }

// RepositoryName returns the name of the generated repository struct.
func (t Type) RepositoryName() string { return t.Name + "Repository" }

// CreateName returns the name of the create shape.
func (t Type) CreateName() string { return "Create" + t.Name }

// UpdateName returns the name of the update shape.
func (t Type) UpdateName() string { return "Update" + t.Name }

// ScanName returns the name of the generated row mapper.
func (t Type) ScanName() string { return "scan" + t.Name }

// SpecName returns the name of the generated table specification variable.
func (t Type) SpecName() string { return camel(snake(t.Name)) + "Spec" }

// QueryName returns the name of the generated constant holding the query
// of the given operation, e.g. userFindByIDQuery.
func (t Type) QueryName(op string) string { return camel(snake(t.Name)) + op + "Query" }

// ColumnsName returns the name of the generated column list.
func (t Type) ColumnsName() string { return t.Name + "Columns" }

// TableName returns the name of the generated table constant.
func (t Type) TableName() string { return t.Name + "Table" }

// Columns returns the column names of all fields in declaration order.
func (t Type) Columns() []string {
	columns := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		columns[i] = f.Column
	}
	return columns
}

// FieldByName returns the field with the given Go name or column name.
func (t Type) FieldByName(name string) (*Field, bool) {
	if f, ok := t.fields[name]; ok {
		return f, true
	}
	for _, f := range t.Fields {
		if f.Column == name {
			return f, true
		}
	}
	return nil, false
}

// IsPK reports whether the field is the primary key.
func (f Field) IsPK() bool { return f.Role == RolePrimaryKey }

// IsAudit reports whether the field is a created-at or updated-at column.
func (f Field) IsAudit() bool {
	return f.Role == RoleAuditCreated || f.Role == RoleAuditUpdated
}

// IsSoftDelete reports whether the field is the soft-delete marker.
func (f Field) IsSoftDelete() bool { return f.Role == RoleSoftDelete }

// Mutable reports whether callers may write the field through the
// create and update shapes.
func (f Field) Mutable() bool { return f.Role == RolePlain }

// Nillable reports whether the column is nullable.
func (f Field) Nillable() bool { return f.Type != nil && f.Type.Optional }

// IsList reports whether the column is an array.
func (f Field) IsList() bool { return f.Type != nil && f.Type.List }

// Pos returns the position of the field declaration.
func (f Field) Pos() load.Position {
	if f.def == nil {
		return load.Position{}
	}
	return f.def.Pos
}
