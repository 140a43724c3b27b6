package sqlrepo

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brianporeilly/repogen"
	"github.com/brianporeilly/repogen/dialect/sql"
	"github.com/brianporeilly/repogen/schema/field"
)

// ErrEmptyUpdate is returned by UpdateQuery when there is nothing to set.
var ErrEmptyUpdate = errors.New("sqlrepo: update has no assignments")

// TableSpec describes the table behind a generated repository. Columns are
// listed in declaration order and include the primary key. The audit and
// soft-delete columns are empty when the record does not declare them.
type TableSpec struct {
	Table      string
	ID         string
	Columns    []string
	CreatedAt  string
	UpdatedAt  string
	DeletedAt  string
	Searchable []string
	Filterable []string
	// Types holds the storage of the filterable columns. Filters on a column
	// missing from Types are only checked for a scalar value.
	Types map[string]ColumnType
}

// ColumnType is the storage of a column as seen by search filters.
type ColumnType struct {
	Category field.Category
	Nullable bool
}

// Assignment is a single "column = value" pair of an UPDATE statement.
type Assignment struct {
	Column string
	Value  any
}

// Statement is a rendered query and its arguments.
type Statement struct {
	Query string
	Args  []any
}

// SoftDelete reports whether the table has a soft-delete marker column.
func (s *TableSpec) SoftDelete() bool {
	return s.DeletedAt != ""
}

// HasColumn reports whether c is a column of the table.
func (s *TableSpec) HasColumn(c string) bool {
	return slices.Contains(s.Columns, c)
}

// server reports whether the column is assigned by the statements
// themselves rather than by the caller.
func (s *TableSpec) server(c string) bool {
	return c != "" && (c == s.ID || c == s.CreatedAt || c == s.UpdatedAt || c == s.DeletedAt)
}

// InsertColumns returns the columns whose values are bound by InsertQuery,
// in order.
func (s *TableSpec) InsertColumns() []string {
	columns := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if !s.server(c) {
			columns = append(columns, c)
		}
	}
	return columns
}

// Scope returns the predicate selecting the rows visible in scope, or nil
// when every row is visible.
func (s *TableSpec) Scope(scope repogen.RecordScope) sql.Predicate {
	if !s.SoftDelete() {
		return nil
	}
	switch scope {
	case repogen.Deleted:
		return sql.NotNull(s.DeletedAt)
	case repogen.All:
		return nil
	default:
		return sql.IsNull(s.DeletedAt)
	}
}

// InsertQuery returns the INSERT statement of a new row. Every column except
// the primary key is written: audit columns are set to NOW(), the soft-delete
// marker to NULL and the rest are bound from values, one per InsertColumns.
//
//	INSERT INTO users (name, email, created_at) VALUES ($1, $2, NOW()) RETURNING id, name, email, created_at
func (s *TableSpec) InsertQuery(values ...any) (string, []any, error) {
	if n := len(s.InsertColumns()); n != len(values) {
		return "", nil, fmt.Errorf("sqlrepo: insert into %s expects %d values, got %d", s.Table, n, len(values))
	}
	ins := sql.Insert(s.Table)
	i := 0
	for _, c := range s.Columns {
		switch c {
		case s.ID:
		case s.CreatedAt, s.UpdatedAt:
			ins.Set(c, sql.Now)
		case s.DeletedAt:
			ins.Set(c, sql.Null)
		default:
			ins.Set(c, values[i])
			i++
		}
	}
	query, args := ins.Returning(s.Columns...).Query()
	return query, args, ins.Err()
}

// FindByIDQuery returns the SELECT of a single row by primary key.
func (s *TableSpec) FindByIDQuery(id any, scope repogen.RecordScope) (string, []any) {
	return sql.Select(s.Columns...).
		From(s.Table).
		Where(sql.EQ(s.ID, id)).
		Where(s.Scope(scope)).
		Query()
}

// FindAllQuery returns the SELECT of every row in scope, ordered by primary key.
func (s *TableSpec) FindAllQuery(scope repogen.RecordScope) (string, []any) {
	return sql.Select(s.Columns...).
		From(s.Table).
		Where(s.Scope(scope)).
		OrderBy(sql.By(s.ID)).
		Query()
}

// CountQuery returns the COUNT of the rows in scope.
func (s *TableSpec) CountQuery(scope repogen.RecordScope) (string, []any) {
	return sql.SelectCount().From(s.Table).Where(s.Scope(scope)).Query()
}

// UpdateQuery returns the UPDATE of the assigned columns of an active row.
// The updated-at column, if any, is set to NOW(). Assignments must name
// caller-writable columns.
func (s *TableSpec) UpdateQuery(id any, set []Assignment) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, ErrEmptyUpdate
	}
	u := sql.Update(s.Table)
	for _, a := range set {
		if !s.HasColumn(a.Column) || s.server(a.Column) {
			return "", nil, fmt.Errorf("sqlrepo: column %q of %s cannot be updated", a.Column, s.Table)
		}
		u.Set(a.Column, a.Value)
	}
	if s.UpdatedAt != "" {
		u.Set(s.UpdatedAt, sql.Now)
	}
	u.Where(sql.EQ(s.ID, id)).Where(s.Scope(repogen.Active)).Returning(s.Columns...)
	query, args := u.Query()
	return query, args, u.Err()
}

// SoftDeleteQuery returns the UPDATE marking an active row as deleted.
func (s *TableSpec) SoftDeleteQuery(id any) (string, []any, error) {
	if !s.SoftDelete() {
		return "", nil, fmt.Errorf("sqlrepo: %s has no soft-delete column", s.Table)
	}
	u := sql.Update(s.Table).Set(s.DeletedAt, sql.Now)
	if s.UpdatedAt != "" {
		u.Set(s.UpdatedAt, sql.Now)
	}
	query, args := u.Where(sql.EQ(s.ID, id)).Where(sql.IsNull(s.DeletedAt)).Query()
	return query, args, u.Err()
}

// HardDeleteQuery returns the DELETE of a row, deleted or not.
func (s *TableSpec) HardDeleteQuery(id any) (string, []any) {
	return sql.Delete(s.Table).Where(sql.EQ(s.ID, id)).Query()
}

// RestoreQuery returns the UPDATE clearing the soft-delete marker of a row.
func (s *TableSpec) RestoreQuery(id any) (string, []any, error) {
	if !s.SoftDelete() {
		return "", nil, fmt.Errorf("sqlrepo: %s has no soft-delete column", s.Table)
	}
	u := sql.Update(s.Table).Set(s.DeletedAt, sql.Null)
	if s.UpdatedAt != "" {
		u.Set(s.UpdatedAt, sql.Now)
	}
	query, args := u.Where(sql.EQ(s.ID, id)).Returning(s.Columns...).Query()
	return query, args, u.Err()
}

// SearchQuery is a search whose arguments are not yet bound to caller
// input. Pattern, Limit and Offset are written as bound arguments.
type SearchQuery struct {
	// Pattern is matched with ILIKE against every searchable column. A nil
	// Pattern leaves out the text predicate.
	Pattern any
	Filters []repogen.Filter
	SortBy  string
	Order   repogen.SortOrder
	Scope   repogen.RecordScope
	Limit   any
	Offset  any
}

// SearchQueries returns the COUNT and the page SELECT of a search. Both
// share the same predicates:
//
//	(name ILIKE $1 OR email ILIKE $1) AND status = $2 AND deleted_at IS NULL
//
// The text query is trimmed and bound as %query%. A blank query matches
// every row.
func (s *TableSpec) SearchQueries(p repogen.SearchParams) (count, page *Statement, err error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	q := SearchQuery{
		Filters: p.Filters,
		SortBy:  p.SortBy,
		Order:   p.SortOrder,
		Scope:   p.Scope,
		Limit:   p.Limit(),
		Offset:  p.Offset(),
	}
	if query := strings.TrimSpace(p.Query); query != "" {
		q.Pattern = "%" + query + "%"
	}
	return s.SearchStatements(q)
}

// SearchStatements renders the COUNT and page SELECT of q. The page is
// ordered by q.SortBy, or the primary key.
func (s *TableSpec) SearchStatements(q SearchQuery) (count, page *Statement, err error) {
	var where sql.Predicate
	if q.Pattern != nil {
		if len(s.Searchable) == 0 {
			return nil, nil, repogen.NewFilterError(s.Table, "query", "table has no searchable columns", nil)
		}
		where = sql.ILikeAny(s.Searchable, q.Pattern)
	}
	for _, f := range q.Filters {
		pred, err := s.filter(f)
		if err != nil {
			return nil, nil, err
		}
		where = sql.And(where, pred)
	}
	where = sql.And(where, s.Scope(q.Scope))
	sortBy := s.ID
	if q.SortBy != "" {
		if !s.HasColumn(q.SortBy) {
			return nil, nil, repogen.NewFilterError(s.Table, q.SortBy, "unknown sort column", s.Columns)
		}
		sortBy = q.SortBy
	}
	cs := sql.SelectCount().From(s.Table).Where(where)
	count = &Statement{}
	count.Query, count.Args = cs.Query()
	ps := sql.Select(s.Columns...).
		From(s.Table).
		Where(where).
		OrderBy(sql.OrderTerm{Column: sortBy, Dir: q.Order.String()}).
		Limit(q.Limit).
		Offset(q.Offset)
	page = &Statement{}
	page.Query, page.Args = ps.Query()
	if err := errors.Join(cs.Err(), ps.Err()); err != nil {
		return nil, nil, err
	}
	return count, page, nil
}

// filter returns the predicate of f. The operator must apply to the storage
// category of the column:
//
//	=, <>              any category
//	<, <=, >, >=       integer, float, text, timestamp
//	LIKE, ILIKE        text
//	IS [NOT] NULL      nullable columns
func (s *TableSpec) filter(f repogen.Filter) (sql.Predicate, error) {
	if !slices.Contains(s.Filterable, f.Column) {
		return nil, repogen.NewFilterError(s.Table, f.Column, "column is not filterable", s.Filterable)
	}
	ct, typed := s.Types[f.Column]
	reject := func(format string, args ...any) error {
		return repogen.NewFilterError(s.Table, f.Column, fmt.Sprintf(format, args...), nil)
	}
	switch f.Op {
	case repogen.OpIsNull, repogen.OpNotNull:
		if typed && !ct.Nullable {
			return nil, reject("%s on a column that is never NULL", f.Op)
		}
		if f.Op == repogen.OpIsNull {
			return sql.IsNull(f.Column), nil
		}
		return sql.NotNull(f.Column), nil
	case repogen.OpLike, repogen.OpILike:
		if typed && ct.Category != field.CategoryText {
			return nil, reject("%s applies to text columns, not %s", f.Op, ct.Category)
		}
	case repogen.OpLT, repogen.OpLTE, repogen.OpGT, repogen.OpGTE:
		if typed && !ct.Category.Ordered() {
			return nil, reject("%s does not apply to %s columns", f.Op, ct.Category)
		}
	case repogen.OpEQ, repogen.OpNEQ:
	default:
		return nil, reject("unknown operator %q", f.Op)
	}
	vc, err := valueCategory(f.Value)
	if err != nil {
		return nil, reject("%v", err)
	}
	if typed && !accepts(ct.Category, vc) {
		return nil, reject("%T value does not match %s column", f.Value, ct.Category)
	}
	return sql.Compare(f.Column, string(f.Op), f.Value), nil
}

// valueCategory returns the category of a filter value. Pointers are
// dereferenced. Values implementing driver.Valuer other than time.Time and
// uuid.UUID have CategoryInvalid.
func valueCategory(v any) (field.Category, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return field.CategoryInvalid, errors.New("value is nil, use IS NULL")
	}
	switch rv.Interface().(type) {
	case time.Time:
		return field.CategoryTimestamp, nil
	case uuid.UUID:
		return field.CategoryUUID, nil
	case driver.Valuer:
		return field.CategoryInvalid, nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return field.CategoryBoolean, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.CategoryInteger, nil
	case reflect.Float32, reflect.Float64:
		// JSON numbers decode as float64.
		if f := rv.Float(); f == math.Trunc(f) && !math.IsInf(f, 0) {
			return field.CategoryInteger, nil
		}
		return field.CategoryFloat, nil
	case reflect.String:
		return field.CategoryText, nil
	default:
		return field.CategoryInvalid, fmt.Errorf("%T is not a scalar value", v)
	}
}

// accepts reports whether a value of category v compares with a column of
// category c. Integers compare with floats and strings with UUIDs.
func accepts(c, v field.Category) bool {
	switch {
	case v == field.CategoryInvalid, c == v:
		return true
	case c == field.CategoryFloat:
		return v == field.CategoryInteger
	case c == field.CategoryUUID:
		return v == field.CategoryText
	}
	return false
}
