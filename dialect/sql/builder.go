package sql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Querier wraps the basic Query method that is implemented
// by the different builders in this file.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

var (
	identRe  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	plainRe  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	reserved = map[string]struct{}{}
)

func init() {
	// PostgreSQL reserved key words, which must be quoted as identifiers.
	for _, w := range strings.Fields(`all analyse analyze and any array as asc asymmetric
		both case cast check collate column constraint create current_catalog
		current_date current_role current_time current_timestamp current_user
		default deferrable desc distinct do else end except false fetch for
		foreign from grant group having in initially intersect into lateral
		leading limit localtime localtimestamp not null offset on only or order
		placing primary references returning select session_user some symmetric
		system_user table then to trailing true union unique user using variadic
		when where window with`) {
		reserved[w] = struct{}{}
	}
}

// maxIdentLen is the PostgreSQL identifier length limit (NAMEDATALEN-1).
const maxIdentLen = 63

// ValidColumn reports whether s can be used as a column name.
func ValidColumn(s string) bool {
	return len(s) <= maxIdentLen && identRe.MatchString(s)
}

// ValidTable reports whether s can be used as a table name, optionally
// schema-qualified, e.g. "users" or "public.users".
func ValidTable(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !ValidColumn(part) {
			return false
		}
	}
	return true
}

// Quote quotes a single identifier when it is not a plain lower-case
// identifier or when it is a reserved word.
//
//	email      => email
//	user       => "user"
//	CreatedAt  => "CreatedAt"
func Quote(ident string) string {
	if _, ok := reserved[ident]; !ok && plainRe.MatchString(ident) {
		return ident
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteTable quotes every part of a possibly schema-qualified table name.
func QuoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = Quote(p)
	}
	return strings.Join(parts, ".")
}

// Raw returns an expression that is written verbatim instead of being
// bound as an argument, e.g. Raw("NOW()").
func Raw(expr string) Querier { return raw(expr) }

type raw string

func (r raw) Query() (string, []any) { return string(r), nil }

// Common raw expressions.
var (
	Now  = Raw("NOW()")
	Null = Raw("NULL")
)

// Builder is the base query builder for the sql dsl.
// Arguments are bound as positional $n placeholders, numbered in the order
// they are written.
type Builder struct {
	sb    *strings.Builder // underlying builder.
	args  []any            // query parameters.
	total int              // total number of parameters in query tree.
	errs  []error          // errors that occurred during query construction.
}

func (b *Builder) builder() *strings.Builder {
	if b.sb == nil {
		b.sb = &strings.Builder{}
	}
	return b.sb
}

// WriteString writes a string to the builder.
func (b *Builder) WriteString(s string) *Builder {
	b.builder().WriteString(s)
	return b
}

// WriteByte writes a single byte to the builder.
func (b *Builder) WriteByte(c byte) *Builder {
	b.builder().WriteByte(c)
	return b
}

// Pad adds a space to the query.
func (b *Builder) Pad() *Builder {
	return b.WriteByte(' ')
}

// Ident writes the given identifier, quoted if needed.
func (b *Builder) Ident(s string) *Builder {
	return b.WriteString(Quote(s))
}

// IdentComma writes a comma separated list of identifiers.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(s[i])
	}
	return b
}

// Table writes the given table name, quoted if needed.
func (b *Builder) Table(s string) *Builder {
	return b.WriteString(QuoteTable(s))
}

// Arg binds a value and writes its placeholder. Querier values, such as Raw
// expressions, are written inline.
func (b *Builder) Arg(a any) *Builder {
	if q, ok := a.(Querier); ok {
		query, args := q.Query()
		b.WriteString(query)
		b.args = append(b.args, args...)
		b.total += len(args)
		return b
	}
	b.total++
	b.args = append(b.args, a)
	return b.WriteString("$" + strconv.Itoa(b.total))
}

// Args writes a comma separated list of arguments.
func (b *Builder) Args(a ...any) *Builder {
	for i := range a {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Arg(a[i])
	}
	return b
}

// placeholder returns the placeholder of the last bound argument.
func (b *Builder) placeholder() string {
	return "$" + strconv.Itoa(b.total)
}

// AddError appends an error to the builder errors.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns a concatenated error of all errors encountered during
// the query-building, or were added manually by calling AddError.
func (b *Builder) Err() error {
	if len(b.errs) == 0 {
		return nil
	}
	br := strings.Builder{}
	for i := range b.errs {
		if i > 0 {
			br.WriteString("; ")
		}
		br.WriteString(b.errs[i].Error())
	}
	return fmt.Errorf("%s", br.String())
}

// String returns the accumulated string.
func (b *Builder) String() string {
	return b.builder().String()
}

// Query implements the Querier interface.
func (b *Builder) Query() (string, []any) {
	return b.String(), b.args
}

// Predicate is a condition written into a WHERE clause.
type Predicate func(*Builder)

// Compare returns a predicate comparing a column with a bound value using
// one of the binary operators =, <>, <, <=, >, >=, LIKE and ILIKE.
func Compare(column, op string, v any) Predicate {
	return func(b *Builder) {
		switch op {
		case "=", "<>", "<", "<=", ">", ">=", "LIKE", "ILIKE":
		default:
			b.AddError(fmt.Errorf("sql: unsupported operator %q", op))
		}
		b.Ident(column).Pad().WriteString(op).Pad().Arg(v)
	}
}

// EQ returns a "=" predicate.
func EQ(column string, v any) Predicate { return Compare(column, "=", v) }

// NEQ returns a "<>" predicate.
func NEQ(column string, v any) Predicate { return Compare(column, "<>", v) }

// LT returns a "<" predicate.
func LT(column string, v any) Predicate { return Compare(column, "<", v) }

// LTE returns a "<=" predicate.
func LTE(column string, v any) Predicate { return Compare(column, "<=", v) }

// GT returns a ">" predicate.
func GT(column string, v any) Predicate { return Compare(column, ">", v) }

// GTE returns a ">=" predicate.
func GTE(column string, v any) Predicate { return Compare(column, ">=", v) }

// Like returns a LIKE predicate.
func Like(column string, v any) Predicate { return Compare(column, "LIKE", v) }

// ILike returns an ILIKE predicate.
func ILike(column string, v any) Predicate { return Compare(column, "ILIKE", v) }

// IsNull returns an "IS NULL" predicate.
func IsNull(column string) Predicate {
	return func(b *Builder) { b.Ident(column).WriteString(" IS NULL") }
}

// NotNull returns an "IS NOT NULL" predicate.
func NotNull(column string) Predicate {
	return func(b *Builder) { b.Ident(column).WriteString(" IS NOT NULL") }
}

// ILikeAny returns a predicate matching the pattern against any of the
// columns. The pattern is bound once and its placeholder is shared.
//
//	(name ILIKE $1 OR email ILIKE $1)
func ILikeAny(columns []string, pattern any) Predicate {
	return func(b *Builder) {
		b.WriteByte('(')
		var ph string
		for i, c := range columns {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.Ident(c).WriteString(" ILIKE ")
			if i == 0 {
				b.Arg(pattern)
				ph = b.placeholder()
			} else {
				b.WriteString(ph)
			}
		}
		b.WriteByte(')')
	}
}

// And groups predicates with the AND operator. Nil predicates are skipped.
func And(preds ...Predicate) Predicate { return join(" AND ", preds) }

// Or groups predicates with the OR operator, wrapped in parentheses.
func Or(preds ...Predicate) Predicate {
	p := join(" OR ", preds)
	if p == nil {
		return nil
	}
	return func(b *Builder) {
		b.WriteByte('(')
		p(b)
		b.WriteByte(')')
	}
}

func join(sep string, preds []Predicate) Predicate {
	ps := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return nil
	}
	return func(b *Builder) {
		for i, p := range ps {
			if i > 0 {
				b.WriteString(sep)
			}
			p(b)
		}
	}
}

// OrderTerm is a column of an ORDER BY clause. An empty Dir leaves the
// direction to the database default.
type OrderTerm struct {
	Column string
	Dir    string
}

// By returns an order term without an explicit direction.
func By(column string) OrderTerm { return OrderTerm{Column: column} }

// Asc returns an ascending order term.
func Asc(column string) OrderTerm { return OrderTerm{Column: column, Dir: "ASC"} }

// Desc returns a descending order term.
func Desc(column string) OrderTerm { return OrderTerm{Column: column, Dir: "DESC"} }

// Selector is a builder for the `SELECT` statement.
type Selector struct {
	Builder
	table   string
	columns []string
	count   bool
	where   Predicate
	order   []OrderTerm
	limit   *bound
	offset  *bound
}

type bound struct{ v any }

// Select returns a builder for the `SELECT` statement.
func Select(columns ...string) *Selector {
	return &Selector{columns: columns}
}

// SelectCount returns a builder for a `SELECT COUNT(*)` statement.
func SelectCount() *Selector {
	return &Selector{count: true}
}

// From sets the table of the query.
func (s *Selector) From(table string) *Selector {
	s.table = table
	return s
}

// Where appends a predicate to the WHERE clause, joined with AND.
func (s *Selector) Where(p Predicate) *Selector {
	s.where = And(s.where, p)
	return s
}

// OrderBy appends terms to the ORDER BY clause.
func (s *Selector) OrderBy(terms ...OrderTerm) *Selector {
	s.order = append(s.order, terms...)
	return s
}

// Limit binds the LIMIT clause.
func (s *Selector) Limit(v any) *Selector {
	s.limit = &bound{v}
	return s
}

// Offset binds the OFFSET clause.
func (s *Selector) Offset(v any) *Selector {
	s.offset = &bound{v}
	return s
}

// Query returns query representation of a `SELECT` statement. Each call
// renders the statement again.
func (s *Selector) Query() (string, []any) {
	s.Builder = Builder{}
	b := &s.Builder
	b.WriteString("SELECT ")
	switch {
	case s.count:
		b.WriteString("COUNT(*)")
	case len(s.columns) == 0:
		b.WriteByte('*')
	default:
		b.IdentComma(s.columns...)
	}
	b.WriteString(" FROM ").Table(s.table)
	if s.where != nil {
		b.WriteString(" WHERE ")
		s.where(b)
	}
	for i, t := range s.order {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.Ident(t.Column)
		if t.Dir != "" {
			b.Pad().WriteString(t.Dir)
		}
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ").Arg(s.limit.v)
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").Arg(s.offset.v)
	}
	return b.Query()
}

// InsertBuilder is a builder for the `INSERT INTO` statement.
type InsertBuilder struct {
	Builder
	table     string
	columns   []string
	values    []any
	returning []string
}

// Insert creates a builder for the `INSERT INTO` statement.
func Insert(table string) *InsertBuilder { return &InsertBuilder{table: table} }

// Set appends a column and its value.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.columns = append(i.columns, column)
	i.values = append(i.values, v)
	return i
}

// Returning adds the `RETURNING` clause to the insert statement.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

// Query returns query representation of an `INSERT INTO` statement.
func (i *InsertBuilder) Query() (string, []any) {
	i.Builder = Builder{}
	b := &i.Builder
	b.WriteString("INSERT INTO ").Table(i.table)
	if len(i.columns) == 0 {
		b.WriteString(" DEFAULT VALUES")
	} else {
		b.WriteString(" (").IdentComma(i.columns...).WriteString(") VALUES (").Args(i.values...).WriteByte(')')
	}
	returning(b, i.returning)
	return b.Query()
}

// UpdateBuilder is a builder for `UPDATE` statement.
type UpdateBuilder struct {
	Builder
	table     string
	columns   []string
	values    []any
	where     Predicate
	returning []string
}

// Update creates a builder for the `UPDATE` statement.
func Update(table string) *UpdateBuilder { return &UpdateBuilder{table: table} }

// Set sets a column to a given value.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Empty reports whether this builder does not contain update changes.
func (u *UpdateBuilder) Empty() bool {
	return len(u.columns) == 0
}

// Where appends a predicate to the WHERE clause, joined with AND.
func (u *UpdateBuilder) Where(p Predicate) *UpdateBuilder {
	u.where = And(u.where, p)
	return u
}

// Returning adds the `RETURNING` clause to the update statement.
func (u *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	u.returning = columns
	return u
}

// Query returns query representation of an `UPDATE` statement.
func (u *UpdateBuilder) Query() (string, []any) {
	u.Builder = Builder{}
	b := &u.Builder
	b.WriteString("UPDATE ").Table(u.table).WriteString(" SET ")
	if u.Empty() {
		b.AddError(fmt.Errorf("sql: update %s has no columns to set", u.table))
	}
	for i, c := range u.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(c).WriteString(" = ").Arg(u.values[i])
	}
	if u.where != nil {
		b.WriteString(" WHERE ")
		u.where(b)
	}
	returning(b, u.returning)
	return b.Query()
}

// DeleteBuilder is a builder for `DELETE` statement.
type DeleteBuilder struct {
	Builder
	table string
	where Predicate
}

// Delete creates a builder for the `DELETE` statement.
func Delete(table string) *DeleteBuilder { return &DeleteBuilder{table: table} }

// Where appends a predicate to the WHERE clause, joined with AND.
func (d *DeleteBuilder) Where(p Predicate) *DeleteBuilder {
	d.where = And(d.where, p)
	return d
}

// Query returns query representation of a `DELETE` statement.
func (d *DeleteBuilder) Query() (string, []any) {
	d.Builder = Builder{}
	b := &d.Builder
	b.WriteString("DELETE FROM ").Table(d.table)
	if d.where != nil {
		b.WriteString(" WHERE ")
		d.where(b)
	}
	return b.Query()
}

func returning(b *Builder, columns []string) {
	if len(columns) > 0 {
		b.WriteString(" RETURNING ").IdentComma(columns...)
	}
}
