package sql

import (
	"fmt"

	"github.com/brianporeilly/repogen"
	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/dialect/sql/sqlrepo"
)

// Kind is the operation a template implements.
type Kind string

// Template kinds.
const (
	KindInsert      Kind = "Insert"
	KindFindByID    Kind = "FindByID"
	KindFindAll     Kind = "FindAll"
	KindCount       Kind = "Count"
	KindUpdate      Kind = "Update"
	KindSoftDelete  Kind = "SoftDelete"
	KindHardDelete  Kind = "HardDelete"
	KindRestore     Kind = "Restore"
	KindSearchCount Kind = "SearchCount"
	KindSearchPage  Kind = "SearchPage"
)

// Search parameters bound by the search templates.
const (
	ParamQuery  = "query"
	ParamLimit  = "limit"
	ParamOffset = "offset"
)

// Binding is the source of one bound value: a record field, or a search
// parameter for the values that do not come from the record.
type Binding struct {
	Field *gen.Field
	Param string
}

// String returns the field name or the parameter name.
func (b Binding) String() string {
	if b.Field != nil {
		return b.Field.Name
	}
	return b.Param
}

// param marks a search parameter among the rendered arguments.
type param string

// Template is a parameterized statement of a repository. Bindings supply
// the values of $1..$n, in order.
type Template struct {
	Kind     Kind
	Scope    repogen.RecordScope
	Scoped   bool
	SQL      string
	Bindings []Binding
}

// Name returns the template name, e.g. FindByID, FindByIDDeleted.
func (t *Template) Name() string {
	if !t.Scoped {
		return string(t.Kind)
	}
	switch t.Scope {
	case repogen.Deleted:
		return string(t.Kind) + "Deleted"
	case repogen.All:
		return string(t.Kind) + "All"
	default:
		return string(t.Kind)
	}
}

// Spec returns the runtime table description of t.
func Spec(t *gen.Type) *sqlrepo.TableSpec {
	s := &sqlrepo.TableSpec{
		Table:   t.Table(),
		ID:      t.ID.Column,
		Columns: t.Columns(),
	}
	if t.CreatedAt != nil {
		s.CreatedAt = t.CreatedAt.Column
	}
	if t.UpdatedAt != nil {
		s.UpdatedAt = t.UpdatedAt.Column
	}
	if t.DeletedAt != nil {
		s.DeletedAt = t.DeletedAt.Column
	}
	for _, f := range t.SearchableFields() {
		s.Searchable = append(s.Searchable, f.Column)
	}
	for _, f := range t.FilterableFields() {
		s.Filterable = append(s.Filterable, f.Column)
		if f.Type == nil {
			continue
		}
		if s.Types == nil {
			s.Types = make(map[string]sqlrepo.ColumnType)
		}
		s.Types[f.Column] = sqlrepo.ColumnType{Category: f.Type.Type.Category(), Nullable: f.Nillable()}
	}
	return s
}

// Synthesize builds the templates of every operation of t. The statements
// are rendered by the runtime builder with the fields themselves as
// arguments, so the SQL of generated constants and of statements built at
// run time is the same.
func Synthesize(t *gen.Type) ([]*Template, error) {
	var (
		s      = Spec(t)
		sy     = &synth{}
		scopes = []repogen.RecordScope{repogen.Active}
	)
	if t.SoftDelete() {
		scopes = append(scopes, repogen.Deleted, repogen.All)
	}

	create := t.CreateFields()
	values := make([]any, len(create))
	for i, f := range create {
		values[i] = f
	}
	sy.add(KindInsert, repogen.Active, false)(s.InsertQuery(values...))
	for _, scope := range scopes {
		sy.add(KindFindByID, scope, t.SoftDelete())(withNil(s.FindByIDQuery(t.ID, scope)))
	}
	for _, scope := range scopes {
		sy.add(KindFindAll, scope, t.SoftDelete())(withNil(s.FindAllQuery(scope)))
	}
	for _, scope := range scopes {
		sy.add(KindCount, scope, t.SoftDelete())(withNil(s.CountQuery(scope)))
	}
	if update := t.UpdateFields(); len(update) > 0 {
		set := make([]sqlrepo.Assignment, len(update))
		for i, f := range update {
			set[i] = sqlrepo.Assignment{Column: f.Column, Value: f}
		}
		sy.add(KindUpdate, repogen.Active, false)(s.UpdateQuery(t.ID, set))
	} else {
		// Without writable fields, an update returns the current active row.
		sy.add(KindUpdate, repogen.Active, false)(withNil(s.FindByIDQuery(t.ID, repogen.Active)))
	}
	if t.SoftDelete() {
		sy.add(KindSoftDelete, repogen.Active, false)(s.SoftDeleteQuery(t.ID))
	}
	sy.add(KindHardDelete, repogen.Active, false)(withNil(s.HardDeleteQuery(t.ID)))
	if t.SoftDelete() {
		sy.add(KindRestore, repogen.Active, false)(s.RestoreQuery(t.ID))
	}
	q := sqlrepo.SearchQuery{
		Order:  repogen.Asc,
		Scope:  repogen.Active,
		Limit:  param(ParamLimit),
		Offset: param(ParamOffset),
	}
	if len(s.Searchable) > 0 {
		q.Pattern = param(ParamQuery)
	}
	count, page, err := s.SearchStatements(q)
	if err != nil {
		return nil, err
	}
	sy.add(KindSearchCount, repogen.Active, false)(count.Query, count.Args, nil)
	sy.add(KindSearchPage, repogen.Active, false)(page.Query, page.Args, nil)
	if sy.err != nil {
		return nil, sy.err
	}
	return sy.tmpls, nil
}

// synth collects templates and keeps the first error.
type synth struct {
	tmpls []*Template
	err   error
}

// add returns a function recording the rendered statement of kind. Scoped
// templates are the variants of a read on a soft-delete table.
func (sy *synth) add(kind Kind, scope repogen.RecordScope, scoped bool) func(string, []any, error) {
	return func(query string, args []any, err error) {
		if sy.err != nil {
			return
		}
		if err != nil {
			sy.err = fmt.Errorf("%s: %w", kind, err)
			return
		}
		b, err := bindings(args)
		if err != nil {
			sy.err = fmt.Errorf("%s: %w", kind, err)
			return
		}
		sy.tmpls = append(sy.tmpls, &Template{Kind: kind, Scope: scope, Scoped: scoped, SQL: query, Bindings: b})
	}
}

func withNil(query string, args []any) (string, []any, error) {
	return query, args, nil
}

// Lookup returns the template of the given kind and scope.
func Lookup(tmpls []*Template, kind Kind, scope repogen.RecordScope) (*Template, bool) {
	for _, t := range tmpls {
		if t.Kind == kind && (!t.Scoped || t.Scope == scope) {
			return t, true
		}
	}
	return nil, false
}

func bindings(args []any) ([]Binding, error) {
	b := make([]Binding, len(args))
	for i, a := range args {
		switch a := a.(type) {
		case *gen.Field:
			b[i] = Binding{Field: a}
		case param:
			b[i] = Binding{Param: string(a)}
		default:
			return nil, fmt.Errorf("unexpected argument %v (%T) at $%d", a, a, i+1)
		}
	}
	return b, nil
}
