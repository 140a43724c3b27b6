package sqlrepo

import (
	"context"
	"errors"

	"github.com/brianporeilly/repogen"
	"github.com/brianporeilly/repogen/dialect"
	"github.com/brianporeilly/repogen/dialect/sql"
)

// ScanFunc scans the current row into a record.
type ScanFunc[T any] func(sql.ColumnScanner) (T, error)

// Repo executes the statements of a TableSpec and maps their rows with a
// ScanFunc. Generated repositories delegate to it.
type Repo[T any] struct {
	spec *TableSpec
	drv  dialect.ExecQuerier
	scan ScanFunc[T]
}

// NewRepo returns a Repo over drv.
func NewRepo[T any](drv dialect.ExecQuerier, spec *TableSpec, scan ScanFunc[T]) *Repo[T] {
	return &Repo[T]{spec: spec, drv: drv, scan: scan}
}

// Spec returns the table description.
func (r *Repo[T]) Spec() *TableSpec {
	return r.spec
}

// Scoped picks the query of the given scope.
func Scoped(scope repogen.RecordScope, active, deleted, all string) string {
	switch scope {
	case repogen.Deleted:
		return deleted
	case repogen.All:
		return all
	default:
		return active
	}
}

// One runs a query that returns at most one row. A missing row is reported
// as a *repogen.NotFoundError for id.
func (r *Repo[T]) One(ctx context.Context, op string, id any, query string, args ...any) (T, error) {
	var zero T
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return zero, r.wrap(op, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, r.wrap(op, err)
		}
		return zero, repogen.NewNotFoundError(r.spec.Table, r.spec.ID, id)
	}
	v, err := r.scan(rows)
	if err != nil {
		return zero, r.wrap(op, err)
	}
	return v, nil
}

// All runs a query and scans every returned row.
func (r *Repo[T]) All(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, r.wrap(op, err)
	}
	defer rows.Close()
	var vs []T
	for rows.Next() {
		v, err := r.scan(rows)
		if err != nil {
			return nil, r.wrap(op, err)
		}
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap(op, err)
	}
	return vs, nil
}

// Count runs a COUNT query.
func (r *Repo[T]) Count(ctx context.Context, op, query string, args ...any) (int64, error) {
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, r.wrap(op, err)
	}
	defer rows.Close()
	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, r.wrap(op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, r.wrap(op, err)
	}
	return n, nil
}

// Affected runs a statement and reports whether it changed at least one row.
func (r *Repo[T]) Affected(ctx context.Context, op, query string, args ...any) (bool, error) {
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return false, r.wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, r.wrap(op, err)
	}
	return n > 0, nil
}

// Update writes the assignments to the active row id and returns it. An
// empty assignment list changes nothing and returns the current row.
func (r *Repo[T]) Update(ctx context.Context, id any, set []Assignment) (T, error) {
	if len(set) == 0 {
		query, args := r.spec.FindByIDQuery(id, repogen.Active)
		return r.One(ctx, "update", id, query, args...)
	}
	query, args, err := r.spec.UpdateQuery(id, set)
	if err != nil {
		var zero T
		return zero, r.wrap("update", err)
	}
	return r.One(ctx, "update", id, query, args...)
}

// Search returns one page of the rows matching p, together with the total
// match count.
func (r *Repo[T]) Search(ctx context.Context, p repogen.SearchParams) (*repogen.SearchResult[T], error) {
	count, page, err := r.spec.SearchQueries(p)
	if err != nil {
		return nil, err
	}
	total, err := r.Count(ctx, "search", count.Query, count.Args...)
	if err != nil {
		return nil, err
	}
	items, err := r.All(ctx, "search", page.Query, page.Args...)
	if err != nil {
		return nil, err
	}
	return repogen.NewSearchResult(items, total, p.Page, p.Limit()), nil
}

// CountMatching returns the number of rows matching p: its text query, its
// filters and its scope. Pagination and sorting are ignored.
func (r *Repo[T]) CountMatching(ctx context.Context, p repogen.SearchParams) (int64, error) {
	count, _, err := r.spec.SearchQueries(p)
	if err != nil {
		return 0, err
	}
	return r.Count(ctx, "count", count.Query, count.Args...)
}

// wrap converts a driver error into a *repogen.QueryError. Constraint
// violations are wrapped in a *repogen.ConstraintError first.
func (r *Repo[T]) wrap(op string, err error) error {
	if err == nil || errors.Is(err, repogen.ErrNotFound) {
		return err
	}
	if sql.IsConstraintViolation(err) {
		err = constraintError(err)
	}
	return repogen.NewQueryError(r.spec.Table, op, err)
}

func constraintError(err error) *repogen.ConstraintError {
	if pe, ok := sql.AsPgError(err); ok {
		return repogen.NewConstraintError(pe.Code, pe.Constraint, pe.Message, err)
	}
	var code string
	switch {
	case sql.IsUniqueViolation(err):
		code = sql.CodeUniqueViolation
	case sql.IsForeignKeyViolation(err):
		code = sql.CodeForeignKeyViolation
	case sql.IsCheckViolation(err):
		code = sql.CodeCheckViolation
	}
	return repogen.NewConstraintError(code, "", err.Error(), err)
}
