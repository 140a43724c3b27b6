package repogen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors returned by generated repositories.
var (
	// ErrNotFound is returned when a record addressed by its primary key does not exist.
	ErrNotFound = errors.New("repogen: record not found")

	// ErrConstraint is returned when a statement violates a database constraint.
	ErrConstraint = errors.New("repogen: constraint failed")

	// ErrInvalidFilter is returned when search parameters reference a column
	// that cannot be filtered or sorted on.
	ErrInvalidFilter = errors.New("repogen: invalid filter")
)

// NotFoundError represents an error when a record is not found.
type NotFoundError struct {
	Table  string // Table that was queried
	Column string // Column used for the lookup, usually the primary key
	Value  any    // Value that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("repogen: %s not found (%s=%v)", e.Table, e.Column, e.Value)
	}
	return fmt.Sprintf("repogen: %s not found", e.Table)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(table, column string, value any) *NotFoundError {
	return &NotFoundError{Table: table, Column: column, Value: value}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	Code       string // SQLSTATE code, e.g. 23505
	Constraint string // Constraint name, if reported by the server
	msg        string
	wrap       error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("repogen: constraint %q failed: %s", e.Constraint, e.msg)
	}
	return fmt.Sprintf("repogen: constraint failed: %s", e.msg)
}

// Is reports whether the target error matches ErrConstraint.
func (e *ConstraintError) Is(err error) bool {
	return err == ErrConstraint
}

// Unwrap returns the underlying error.
func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// Unique reports whether the error is a unique violation.
func (e *ConstraintError) Unique() bool { return e.Code == "23505" }

// ForeignKey reports whether the error is a foreign key violation.
func (e *ConstraintError) ForeignKey() bool { return e.Code == "23503" }

// Check reports whether the error is a check constraint violation.
func (e *ConstraintError) Check() bool { return e.Code == "23514" }

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(code, constraint, msg string, wrap error) *ConstraintError {
	return &ConstraintError{Code: code, Constraint: constraint, msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}

// IsUniqueConstraintError returns true if the error is a unique violation.
func IsUniqueConstraintError(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e) && e.Unique()
}

// QueryError wraps an execution failure with the operation and table it came from.
type QueryError struct {
	Table string // Table being queried
	Op    string // Operation (e.g., "create", "find", "search")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("repogen: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(table, op string, err error) *QueryError {
	return &QueryError{Table: table, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// FilterError reports a search filter or sort column that the table does not allow.
type FilterError struct {
	Table   string
	Column  string
	Reason  string
	Allowed []string
}

// Error returns the error string.
func (e *FilterError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "repogen: invalid filter on %s.%s: %s", e.Table, e.Column, e.Reason)
	if len(e.Allowed) > 0 {
		sb.WriteString(" (allowed: ")
		sb.WriteString(strings.Join(e.Allowed, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Is reports whether the target error matches ErrInvalidFilter.
func (e *FilterError) Is(err error) bool {
	return err == ErrInvalidFilter
}

// NewFilterError returns a new FilterError.
func NewFilterError(table, column, reason string, allowed []string) *FilterError {
	return &FilterError{Table: table, Column: column, Reason: reason, Allowed: allowed}
}

// IsFilterError returns true if the error is a FilterError.
func IsFilterError(err error) bool {
	if err == nil {
		return false
	}
	var e *FilterError
	return errors.As(err, &e)
}

// ValidationError represents invalid input passed to a repository operation.
type ValidationError struct {
	Name string // Parameter name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("repogen: invalid %s: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given parameter.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}
