package gen

// CreateFields returns the fields of the create shape: every field except
// the primary key, the audit columns and the soft-delete marker, in
// declaration order.
func (t Type) CreateFields() []*Field {
	return t.mutable()
}

// UpdateFields returns the fields of the update shape. Each of them is
// wrapped in repogen.Patch by the generated code.
func (t Type) UpdateFields() []*Field {
	return t.mutable()
}

func (t Type) mutable() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Mutable() {
			fields = append(fields, f)
		}
	}
	return fields
}

// SearchableFields returns the fields matched by a search text query.
func (t Type) SearchableFields() []*Field {
	return t.lookup(t.Repo.Searchable)
}

// FilterableFields returns the fields search filters and sorting may
// reference. Without a filterable option, every scalar field is filterable.
func (t Type) FilterableFields() []*Field {
	if t.Repo.Filterable != nil {
		return t.lookup(t.Repo.Filterable)
	}
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.IsList() {
			fields = append(fields, f)
		}
	}
	return fields
}

func (t Type) lookup(names []string) []*Field {
	fields := make([]*Field, 0, len(names))
	for _, name := range names {
		if f, ok := t.FieldByName(name); ok {
			fields = append(fields, f)
		}
	}
	return fields
}
