package repogen

import "fmt"

// Patch is a field of an update payload. The zero value leaves the column
// unchanged; a set Patch writes Value, which may itself be a nil pointer to
// clear a nullable column.
type Patch[T any] struct {
	Set   bool
	Value T
}

// SetTo returns a Patch that writes v.
func SetTo[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: v}
}

// Null returns a Patch that writes NULL to a nullable column.
func Null[T any]() Patch[*T] {
	return Patch[*T]{Set: true}
}

// Get returns the value and whether it was set.
func (p Patch[T]) Get() (T, bool) {
	return p.Value, p.Set
}

// String implements fmt.Stringer.
func (p Patch[T]) String() string {
	if !p.Set {
		return "<unset>"
	}
	return fmt.Sprintf("%v", p.Value)
}

// QueryOption configures a single read operation.
type QueryOption func(*QueryOptions)

// QueryOptions holds the options applied to a read.
type QueryOptions struct {
	Scope RecordScope
}

// WithScope selects active, deleted or all rows. Only soft-delete
// repositories honor it.
func WithScope(scope RecordScope) QueryOption {
	return func(o *QueryOptions) {
		o.Scope = scope
	}
}

// WithDeleted includes soft-deleted rows.
func WithDeleted() QueryOption {
	return WithScope(All)
}

// NewQueryOptions applies opts over the defaults.
func NewQueryOptions(opts ...QueryOption) QueryOptions {
	o := QueryOptions{Scope: Active}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
