package sqlrepo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen"
	"github.com/brianporeilly/repogen/schema/field"
)

func usersSpec() *TableSpec {
	return &TableSpec{
		Table:      "users",
		ID:         "id",
		Columns:    []string{"id", "name", "email", "status", "created_at", "updated_at", "deleted_at"},
		CreatedAt:  "created_at",
		UpdatedAt:  "updated_at",
		DeletedAt:  "deleted_at",
		Searchable: []string{"name", "email"},
		Filterable: []string{"name", "email", "status"},
		Types: map[string]ColumnType{
			"name":   {Category: field.CategoryText},
			"email":  {Category: field.CategoryText, Nullable: true},
			"status": {Category: field.CategoryText},
		},
	}
}

func plainSpec() *TableSpec {
	return &TableSpec{
		Table:   "keys",
		ID:      "id",
		Columns: []string{"id", "name", "value"},
	}
}

const userColumns = "id, name, email, status, created_at, updated_at, deleted_at"

func TestInsertQuery(t *testing.T) {
	s := usersSpec()
	assert.Equal(t, []string{"name", "email", "status"}, s.InsertColumns())

	query, args, err := s.InsertQuery("a8m", "a8m@example.com", "active")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name, email, status, created_at, updated_at, deleted_at) VALUES ($1, $2, $3, NOW(), NOW(), NULL) RETURNING "+userColumns, query)
	assert.Equal(t, []any{"a8m", "a8m@example.com", "active"}, args)

	_, _, err = s.InsertQuery("a8m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 3 values, got 1")
}

func TestInsertQueryColumnOrder(t *testing.T) {
	s := plainSpec()
	s.Columns = []string{"value", "id", "name"}
	query, args, err := s.InsertQuery("v", "n")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO keys (value, name) VALUES ($1, $2) RETURNING value, id, name", query)
	assert.Equal(t, []any{"v", "n"}, args)
}

func TestScopedReads(t *testing.T) {
	s := usersSpec()
	tests := []struct {
		scope        repogen.RecordScope
		find, all, n string
	}{
		{
			scope: repogen.Active,
			find:  "SELECT " + userColumns + " FROM users WHERE id = $1 AND deleted_at IS NULL",
			all:   "SELECT " + userColumns + " FROM users WHERE deleted_at IS NULL ORDER BY id",
			n:     "SELECT COUNT(*) FROM users WHERE deleted_at IS NULL",
		},
		{
			scope: repogen.Deleted,
			find:  "SELECT " + userColumns + " FROM users WHERE id = $1 AND deleted_at IS NOT NULL",
			all:   "SELECT " + userColumns + " FROM users WHERE deleted_at IS NOT NULL ORDER BY id",
			n:     "SELECT COUNT(*) FROM users WHERE deleted_at IS NOT NULL",
		},
		{
			scope: repogen.All,
			find:  "SELECT " + userColumns + " FROM users WHERE id = $1",
			all:   "SELECT " + userColumns + " FROM users ORDER BY id",
			n:     "SELECT COUNT(*) FROM users",
		},
	}
	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			query, args := s.FindByIDQuery(int64(1), tt.scope)
			assert.Equal(t, tt.find, query)
			assert.Equal(t, []any{int64(1)}, args)
			query, args = s.FindAllQuery(tt.scope)
			assert.Equal(t, tt.all, query)
			assert.Empty(t, args)
			query, _ = s.CountQuery(tt.scope)
			assert.Equal(t, tt.n, query)
		})
	}
}

func TestScopeIgnoredWithoutSoftDelete(t *testing.T) {
	s := plainSpec()
	for _, scope := range []repogen.RecordScope{repogen.Active, repogen.Deleted, repogen.All} {
		query, _ := s.FindByIDQuery(int64(1), scope)
		assert.Equal(t, "SELECT id, name, value FROM keys WHERE id = $1", query)
	}
	_, _, err := s.SoftDeleteQuery(int64(1))
	assert.Error(t, err)
	_, _, err = s.RestoreQuery(int64(1))
	assert.Error(t, err)
}

func TestUpdateQuery(t *testing.T) {
	s := usersSpec()
	query, args, err := s.UpdateQuery(int64(5), []Assignment{
		{Column: "name", Value: "ada"},
		{Column: "status", Value: "inactive"},
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = $1, status = $2, updated_at = NOW() WHERE id = $3 AND deleted_at IS NULL RETURNING "+userColumns, query)
	assert.Equal(t, []any{"ada", "inactive", int64(5)}, args)

	_, _, err = s.UpdateQuery(int64(5), nil)
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	for _, c := range []string{"id", "created_at", "deleted_at", "unknown"} {
		_, _, err = s.UpdateQuery(int64(5), []Assignment{{Column: c, Value: 1}})
		assert.Error(t, err, c)
	}

	query, args, err = plainSpec().UpdateQuery(int64(5), []Assignment{{Column: "value", Value: "v"}})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE keys SET value = $1 WHERE id = $2 RETURNING id, name, value", query)
	assert.Equal(t, []any{"v", int64(5)}, args)
}

func TestDeleteQueries(t *testing.T) {
	s := usersSpec()
	query, args, err := s.SoftDeleteQuery(int64(3))
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL", query)
	assert.Equal(t, []any{int64(3)}, args)

	query, args = s.HardDeleteQuery(int64(3))
	assert.Equal(t, "DELETE FROM users WHERE id = $1", query)
	assert.Equal(t, []any{int64(3)}, args)

	query, args, err = s.RestoreQuery(int64(3))
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 RETURNING "+userColumns, query)
	assert.Equal(t, []any{int64(3)}, args)
}

func TestSearchQueries(t *testing.T) {
	s := usersSpec()
	t.Run("Defaults", func(t *testing.T) {
		count, page, err := s.SearchQueries(repogen.DefaultSearchParams())
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM users WHERE deleted_at IS NULL", count.Query)
		assert.Empty(t, count.Args)
		assert.Equal(t, "SELECT "+userColumns+" FROM users WHERE deleted_at IS NULL ORDER BY id ASC LIMIT $1 OFFSET $2", page.Query)
		assert.Equal(t, []any{10, 0}, page.Args)
	})
	t.Run("Full", func(t *testing.T) {
		count, page, err := s.SearchQueries(repogen.SearchParams{
			Query: "jo",
			Filters: []repogen.Filter{
				repogen.Eq("status", "active"),
				{Column: "email", Op: repogen.OpNotNull},
			},
			Page:      2,
			PerPage:   20,
			SortBy:    "name",
			SortOrder: repogen.Desc,
			Scope:     repogen.All,
		})
		require.NoError(t, err)
		where := "(name ILIKE $1 OR email ILIKE $1) AND status = $2 AND email IS NOT NULL"
		assert.Equal(t, "SELECT COUNT(*) FROM users WHERE "+where, count.Query)
		assert.Equal(t, []any{"%jo%", "active"}, count.Args)
		assert.Equal(t, "SELECT "+userColumns+" FROM users WHERE "+where+" ORDER BY name DESC LIMIT $3 OFFSET $4", page.Query)
		assert.Equal(t, []any{"%jo%", "active", 20, 40}, page.Args)
	})
	t.Run("Deleted", func(t *testing.T) {
		count, _, err := s.SearchQueries(repogen.SearchParams{Scope: repogen.Deleted})
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM users WHERE deleted_at IS NOT NULL", count.Query)
	})
	t.Run("PerPageFloor", func(t *testing.T) {
		_, page, err := plainSpec().SearchQueries(repogen.SearchParams{Page: 3, PerPage: 0})
		require.NoError(t, err)
		assert.Equal(t, "SELECT id, name, value FROM keys ORDER BY id ASC LIMIT $1 OFFSET $2", page.Query)
		assert.Equal(t, []any{1, 3}, page.Args)
	})
	t.Run("BlankQuery", func(t *testing.T) {
		count, _, err := s.SearchQueries(repogen.SearchParams{Query: " \t "})
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM users WHERE deleted_at IS NULL", count.Query)
		assert.Empty(t, count.Args)
	})
	t.Run("TrimmedQuery", func(t *testing.T) {
		count, _, err := s.SearchQueries(repogen.SearchParams{Query: "  jo "})
		require.NoError(t, err)
		assert.Equal(t, []any{"%jo%"}, count.Args)
	})
	t.Run("NotFilterable", func(t *testing.T) {
		_, _, err := s.SearchQueries(repogen.SearchParams{Filters: []repogen.Filter{repogen.Eq("created_at", "x")}})
		require.Error(t, err)
		assert.True(t, repogen.IsFilterError(err))
		assert.ErrorIs(t, err, repogen.ErrInvalidFilter)
	})
	t.Run("UnknownSort", func(t *testing.T) {
		_, _, err := s.SearchQueries(repogen.SearchParams{SortBy: "password"})
		require.Error(t, err)
		assert.True(t, repogen.IsFilterError(err))
	})
	t.Run("NoSearchable", func(t *testing.T) {
		_, _, err := plainSpec().SearchQueries(repogen.SearchParams{Query: "x"})
		assert.True(t, repogen.IsFilterError(err))
	})
	t.Run("Invalid", func(t *testing.T) {
		_, _, err := s.SearchQueries(repogen.SearchParams{Page: -1})
		assert.True(t, repogen.IsValidationError(err))
	})
}

func TestSearchFilterCategories(t *testing.T) {
	s := &TableSpec{
		Table:      "people",
		ID:         "id",
		Columns:    []string{"id", "name", "age", "score", "active", "born", "ref", "nick"},
		Filterable: []string{"name", "age", "score", "active", "born", "ref", "nick", "extra"},
		Types: map[string]ColumnType{
			"name":   {Category: field.CategoryText},
			"age":    {Category: field.CategoryInteger},
			"score":  {Category: field.CategoryFloat},
			"active": {Category: field.CategoryBoolean},
			"born":   {Category: field.CategoryTimestamp},
			"ref":    {Category: field.CategoryUUID},
			"nick":   {Category: field.CategoryText, Nullable: true},
		},
	}
	nick := "jo"
	tests := []struct {
		name   string
		filter repogen.Filter
		where  string
		reason string
	}{
		{name: "EqText", filter: repogen.Eq("name", "a8m"), where: "name = $1"},
		{name: "LikeText", filter: repogen.Filter{Column: "name", Op: repogen.OpLike, Value: "a%"}, where: "name LIKE $1"},
		{name: "ILikeNullableText", filter: repogen.Filter{Column: "nick", Op: repogen.OpILike, Value: &nick}, where: "nick ILIKE $1"},
		{name: "OrderedInteger", filter: repogen.Filter{Column: "age", Op: repogen.OpGTE, Value: 18}, where: "age >= $1"},
		{name: "IntegralFloat", filter: repogen.Filter{Column: "age", Op: repogen.OpGT, Value: 18.0}, where: "age > $1"},
		{name: "IntegerOnFloat", filter: repogen.Filter{Column: "score", Op: repogen.OpLT, Value: 3}, where: "score < $1"},
		{name: "OrderedTime", filter: repogen.Filter{Column: "born", Op: repogen.OpLT, Value: time.Unix(0, 0)}, where: "born < $1"},
		{name: "EqBool", filter: repogen.Eq("active", true), where: "active = $1"},
		{name: "UUIDValue", filter: repogen.Eq("ref", uuid.Nil), where: "ref = $1"},
		{name: "UUIDString", filter: repogen.Eq("ref", uuid.Nil.String()), where: "ref = $1"},
		{name: "NullableIsNull", filter: repogen.Filter{Column: "nick", Op: repogen.OpIsNull}, where: "nick IS NULL"},
		{name: "UntypedColumn", filter: repogen.Eq("extra", 1), where: "extra = $1"},

		{name: "LikeInteger", filter: repogen.Filter{Column: "age", Op: repogen.OpILike, Value: "1%"}, reason: "ILIKE applies to text columns, not integer"},
		{name: "OrderedBool", filter: repogen.Filter{Column: "active", Op: repogen.OpLT, Value: true}, reason: "< does not apply to boolean columns"},
		{name: "OrderedUUID", filter: repogen.Filter{Column: "ref", Op: repogen.OpGT, Value: uuid.Nil}, reason: "> does not apply to uuid columns"},
		{name: "NullOnRequired", filter: repogen.Filter{Column: "name", Op: repogen.OpNotNull}, reason: "IS NOT NULL on a column that is never NULL"},
		{name: "MapValue", filter: repogen.Eq("age", map[string]int{"x": 1}), reason: "map[string]int is not a scalar value"},
		{name: "SliceValue", filter: repogen.Eq("extra", []int{1}), reason: "[]int is not a scalar value"},
		{name: "NilValue", filter: repogen.Eq("name", nil), reason: "value is nil, use IS NULL"},
		{name: "NilPointer", filter: repogen.Eq("nick", (*string)(nil)), reason: "value is nil, use IS NULL"},
		{name: "Mismatch", filter: repogen.Eq("age", "ten"), reason: "string value does not match integer column"},
		{name: "FloatOnInteger", filter: repogen.Eq("age", 1.5), reason: "float64 value does not match integer column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, _, err := s.SearchQueries(repogen.SearchParams{Filters: []repogen.Filter{tt.filter}})
			if tt.reason != "" {
				require.Error(t, err)
				var fe *repogen.FilterError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.filter.Column, fe.Column)
				assert.Equal(t, tt.reason, fe.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SELECT COUNT(*) FROM people WHERE "+tt.where, count.Query)
		})
	}
}
