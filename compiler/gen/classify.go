package gen

import (
	"github.com/brianporeilly/repogen/schema/field"
)

// classify resolves the storage type and role of every declared field.
// Problems are recorded on the fields and reported by validate.
func (t *Type) classify() {
	for i, def := range t.schema.Fields {
		f := &Field{
			def:      def,
			Name:     def.Name,
			Column:   snake(def.Name),
			Position: i,
			Comment:  def.Comment,
		}
		if col, ok := def.Annotations[AnnotationColumn]; ok && col != "" {
			f.Column = col
		}
		if !def.Embedded {
			f.Type, f.err = t.resolve(def.Type)
		}
		t.Fields = append(t.Fields, f)
		if _, ok := t.fields[f.Name]; !ok {
			t.fields[f.Name] = f
		}
	}
	t.classifyKey()
	for _, f := range t.Fields {
		if f.Role != RolePlain || f.Type == nil {
			continue
		}
		switch {
		case f.Column == ColumnCreatedAt && isTimestamp(f.Type) && t.CreatedAt == nil:
			f.Role, t.CreatedAt = RoleAuditCreated, f
		case f.Column == ColumnUpdatedAt && isTimestamp(f.Type) && t.UpdatedAt == nil:
			f.Role, t.UpdatedAt = RoleAuditUpdated, f
		}
	}
	if !t.Repo.SoftDelete {
		return
	}
	for _, f := range t.Fields {
		// The marker type is checked by validate.
		if f.Column == ColumnDeletedAt && f.Role == RolePlain && !f.def.Embedded {
			f.Role, t.DeletedAt = RoleSoftDelete, f
			break
		}
	}
}

// classifyKey marks the primary key candidates. Explicitly marked fields win
// over the conventional id column.
func (t *Type) classifyKey() {
	var keys []*Field
	for _, f := range t.Fields {
		if f.def.Embedded {
			continue
		}
		if t.markedKey(f) {
			keys = append(keys, f)
		}
	}
	if len(keys) == 0 && t.Repo.PrimaryKey == "" {
		for _, f := range t.Fields {
			if f.Column == ColumnID && !f.def.Embedded {
				keys = append(keys, f)
			}
		}
	}
	for _, f := range keys {
		f.Role = RolePrimaryKey
	}
	if len(keys) > 0 {
		t.ID = keys[0]
	}
}

// markedKey reports whether the field is marked as primary key by its tag or
// by the record directive.
func (t *Type) markedKey(f *Field) bool {
	if pk := t.Repo.PrimaryKey; pk != "" && (f.Name == pk || f.Column == pk) {
		return true
	}
	v, ok := f.def.Annotations[AnnotationPrimaryKey]
	if !ok {
		return false
	}
	on, err := flag(v)
	return err == nil && on
}

// resolve maps a declared Go type to its storage type, honoring the
// feature-flags that gate optional categories.
func (t *Type) resolve(expr string) (*field.TypeInfo, error) {
	info, err := field.ParseType(expr)
	if err != nil {
		return nil, err
	}
	switch {
	case info.Type == field.TypeUUID && !t.FeatureEnabled(FeatureUUID.Name):
		return nil, &field.UnsupportedTypeError{Expr: info.String(), Reason: "uuid columns require the " + FeatureUUID.Name + " feature"}
	case info.List && !t.FeatureEnabled(FeatureArrays.Name):
		return nil, &field.UnsupportedTypeError{Expr: info.String(), Reason: "list columns require the " + FeatureArrays.Name + " feature"}
	}
	return info, nil
}

func isTimestamp(info *field.TypeInfo) bool {
	return info.Type == field.TypeTime && !info.List
}
