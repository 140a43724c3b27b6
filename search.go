package repogen

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPerPage is the page size of DefaultSearchParams.
const DefaultPerPage = 10

// SortOrder is the direction of a search sort.
type SortOrder string

// Sort directions.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// String returns the SQL keyword for the order.
func (o SortOrder) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// MarshalText encodes the order as "asc" or "desc".
func (o SortOrder) MarshalText() ([]byte, error) {
	if o == "" {
		return []byte(Asc), nil
	}
	if o != Asc && o != Desc {
		return nil, fmt.Errorf("repogen: unknown sort order %q", string(o))
	}
	return []byte(o), nil
}

// UnmarshalText decodes "asc" or "desc", case-insensitively.
func (o *SortOrder) UnmarshalText(b []byte) error {
	v, err := ParseSortOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseSortOrder parses "asc" or "desc", case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("repogen: unknown sort order %q", s)
	}
}

// RecordScope selects which rows a read sees on soft-delete tables.
// Tables without soft delete ignore the scope.
type RecordScope int

// Record scopes.
const (
	// Active selects rows whose soft-delete marker is NULL.
	Active RecordScope = iota
	// Deleted selects only soft-deleted rows.
	Deleted
	// All selects every row regardless of the marker.
	All
)

// String implements fmt.Stringer.
func (s RecordScope) String() string {
	switch s {
	case Active:
		return "active"
	case Deleted:
		return "deleted"
	case All:
		return "all"
	default:
		return fmt.Sprintf("RecordScope(%d)", int(s))
	}
}

// ParseRecordScope parses "active", "deleted" or "all", case-insensitively.
// The empty string is Active.
func ParseRecordScope(s string) (RecordScope, error) {
	switch strings.ToLower(s) {
	case "", "active":
		return Active, nil
	case "deleted":
		return Deleted, nil
	case "all":
		return All, nil
	default:
		return 0, fmt.Errorf("repogen: unknown record scope %q", s)
	}
}

// MarshalText encodes the scope by its lowercase name.
func (s RecordScope) MarshalText() ([]byte, error) {
	if s < Active || s > All {
		return nil, fmt.Errorf("repogen: unknown record scope %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a scope name.
func (s *RecordScope) UnmarshalText(b []byte) error {
	v, err := ParseRecordScope(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Op is a filter comparison operator.
type Op string

// Filter operators.
const (
	OpEQ      Op = "="
	OpNEQ     Op = "<>"
	OpLT      Op = "<"
	OpLTE     Op = "<="
	OpGT      Op = ">"
	OpGTE     Op = ">="
	OpLike    Op = "LIKE"
	OpILike   Op = "ILIKE"
	OpIsNull  Op = "IS NULL"
	OpNotNull Op = "IS NOT NULL"
)

// Unary reports whether the operator takes no value.
func (o Op) Unary() bool {
	return o == OpIsNull || o == OpNotNull
}

// Valid reports whether o is one of the supported operators.
func (o Op) Valid() bool {
	switch o {
	case OpEQ, OpNEQ, OpLT, OpLTE, OpGT, OpGTE, OpLike, OpILike, OpIsNull, OpNotNull:
		return true
	}
	return false
}

// Filter is a single column/operator/value condition. Filters in a search
// are combined with AND.
type Filter struct {
	Column string `json:"column"`
	Op     Op     `json:"op"`
	Value  any    `json:"value,omitempty"`
}

// Eq returns an equality filter.
func Eq(column string, v any) Filter {
	return Filter{Column: column, Op: OpEQ, Value: v}
}

// SearchParams describes a paginated, filtered search.
type SearchParams struct {
	// Query is matched with ILIKE against every searchable column. A blank
	// query matches every row.
	Query string `json:"query,omitempty"`
	// Filters are combined with AND.
	Filters []Filter `json:"filters,omitempty"`
	// Page is 0-based.
	Page int `json:"page"`
	// PerPage is the page size. Values below 1 are treated as 1.
	PerPage   int         `json:"per_page"`
	SortBy    string      `json:"sort_by,omitempty"`
	SortOrder SortOrder   `json:"sort_order"`
	Scope     RecordScope `json:"scope"`
}

// DefaultSearchParams returns the first page of active records, ten per page,
// sorted by primary key ascending.
func DefaultSearchParams() SearchParams {
	return SearchParams{PerPage: DefaultPerPage, SortOrder: Asc, Scope: Active}
}

// Validate checks the parameters that do not depend on the table.
func (p SearchParams) Validate() error {
	var errs []error
	if p.Page < 0 {
		errs = append(errs, NewValidationError("page", fmt.Errorf("must not be negative, got %d", p.Page)))
	}
	if p.SortOrder != "" && p.SortOrder != Asc && p.SortOrder != Desc {
		errs = append(errs, NewValidationError("sort_order", fmt.Errorf("unknown order %q", p.SortOrder)))
	}
	if p.Scope < Active || p.Scope > All {
		errs = append(errs, NewValidationError("scope", fmt.Errorf("unknown scope %d", int(p.Scope))))
	}
	for _, f := range p.Filters {
		if !f.Op.Valid() {
			errs = append(errs, NewValidationError("filter", fmt.Errorf("unknown operator %q on %s", f.Op, f.Column)))
		}
	}
	return errors.Join(errs...)
}

// Limit returns the effective page size, at least 1.
func (p SearchParams) Limit() int {
	return max(p.PerPage, 1)
}

// Offset returns the number of rows skipped before the page.
func (p SearchParams) Offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.Limit()
}

// SearchResult is one page of a search together with the total match count.
type SearchResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// NewSearchResult builds a SearchResult and computes the page count.
func NewSearchResult[T any](items []T, total int64, page, perPage int) *SearchResult[T] {
	if perPage < 1 {
		perPage = 1
	}
	return &SearchResult[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: TotalPages(total, perPage),
	}
}

// TotalPages returns ceil(count/perPage). An empty result still has one page.
func TotalPages(count int64, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	if count <= 0 {
		return 1
	}
	size := int64(perPage)
	return int((count + size - 1) / size)
}

// HasNextPage reports whether a page follows the current one.
func (r *SearchResult[T]) HasNextPage() bool {
	return r.Page+1 < r.TotalPages
}

// HasPreviousPage reports whether a page precedes the current one.
func (r *SearchResult[T]) HasPreviousPage() bool {
	return r.Page > 0
}
