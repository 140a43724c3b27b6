package repogen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := repogen.NewNotFoundError("users", "id", int64(42))
		assert.Equal(t, "repogen: users not found (id=42)", err.Error())

		err = repogen.NewNotFoundError("users", "", nil)
		assert.Equal(t, "repogen: users not found", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := repogen.NewNotFoundError("posts", "id", 1)
		assert.True(t, errors.Is(err, repogen.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := repogen.NewNotFoundError("comments", "id", 7)
		assert.True(t, repogen.IsNotFound(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, repogen.IsNotFound(wrapped))

		// Sentinel error
		assert.True(t, repogen.IsNotFound(repogen.ErrNotFound))

		// Non-matching error
		assert.False(t, repogen.IsNotFound(errors.New("other error")))
		assert.False(t, repogen.IsNotFound(nil))
	})
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")

	t.Run("Unique", func(t *testing.T) {
		err := repogen.NewConstraintError("23505", "users_email_key", "duplicate email", cause)
		assert.True(t, err.Unique())
		assert.False(t, err.ForeignKey())
		assert.Contains(t, err.Error(), `"users_email_key"`)
		assert.True(t, repogen.IsUniqueConstraintError(fmt.Errorf("create: %w", err)))
		assert.True(t, errors.Is(err, repogen.ErrConstraint))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("ForeignKeyAndCheck", func(t *testing.T) {
		fk := repogen.NewConstraintError("23503", "", "missing parent", nil)
		assert.True(t, fk.ForeignKey())
		assert.Equal(t, "repogen: constraint failed: missing parent", fk.Error())
		assert.False(t, repogen.IsUniqueConstraintError(fk))

		ck := repogen.NewConstraintError("23514", "", "age check", nil)
		assert.True(t, ck.Check())
		assert.True(t, repogen.IsConstraintError(ck))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.False(t, repogen.IsConstraintError(nil))
		assert.False(t, repogen.IsUniqueConstraintError(nil))
	})
}

func TestQueryError(t *testing.T) {
	cause := errors.New("connection reset")
	err := repogen.NewQueryError("users", "find", cause)

	assert.Equal(t, "repogen: find users: connection reset", err.Error())
	assert.True(t, repogen.IsQueryError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, repogen.IsQueryError(cause))
	assert.False(t, repogen.IsQueryError(nil))

	// A not-found cause stays detectable through the wrapper.
	wrapped := repogen.NewQueryError("users", "update", repogen.NewNotFoundError("users", "id", 1))
	assert.True(t, repogen.IsNotFound(wrapped))
}

func TestFilterError(t *testing.T) {
	err := repogen.NewFilterError("users", "password", "column is not filterable", []string{"name", "status"})

	assert.Equal(t, "repogen: invalid filter on users.password: column is not filterable (allowed: name, status)", err.Error())
	assert.True(t, errors.Is(err, repogen.ErrInvalidFilter))
	assert.True(t, repogen.IsFilterError(fmt.Errorf("search: %w", err)))
	assert.False(t, repogen.IsFilterError(nil))
}

func TestValidationError(t *testing.T) {
	cause := errors.New("must not be negative")
	err := repogen.NewValidationError("page", cause)

	require.Error(t, err)
	assert.Equal(t, "repogen: invalid page: must not be negative", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, repogen.IsValidationError(err))
	assert.False(t, repogen.IsValidationError(nil))
}
