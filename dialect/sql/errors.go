package sql

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
)

// PgError is the driver-independent view of a PostgreSQL server error.
type PgError struct {
	Code       string
	Constraint string
	Table      string
	Message    string
}

// AsPgError extracts the server error of either PostgreSQL driver from the
// error chain.
func AsPgError(err error) (*PgError, bool) {
	var (
		pqErr  *pq.Error
		pgxErr *pgconn.PgError
	)
	switch {
	case errors.As(err, &pqErr):
		return &PgError{Code: string(pqErr.Code), Constraint: pqErr.Constraint, Table: pqErr.Table, Message: pqErr.Message}, true
	case errors.As(err, &pgxErr):
		return &PgError{Code: pgxErr.Code, Constraint: pgxErr.ConstraintName, Table: pgxErr.TableName, Message: pgxErr.Message}, true
	}
	return nil, false
}

// IsConstraintViolation reports if the error resulted from a unique,
// foreign-key or check constraint violation.
func IsConstraintViolation(err error) bool {
	return IsUniqueViolation(err) || IsForeignKeyViolation(err) || IsCheckViolation(err)
}

// IsUniqueViolation reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueViolation(err error) bool {
	return hasCode(err, CodeUniqueViolation, "violates unique constraint")
}

// IsForeignKeyViolation reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, CodeForeignKeyViolation, "violates foreign key constraint")
}

// IsCheckViolation reports if the error resulted from a database check constraint violation.
// e.g. a value does not satisfy a check condition.
func IsCheckViolation(err error) bool {
	return hasCode(err, CodeCheckViolation, "violates check constraint")
}

// hasCode matches the SQLSTATE of a driver error, falling back to the
// server message for wrapped errors that lost their type.
func hasCode(err error, code, fallback string) bool {
	if err == nil {
		return false
	}
	if pe, ok := AsPgError(err); ok {
		return pe.Code == code
	}
	return strings.Contains(err.Error(), fallback)
}
