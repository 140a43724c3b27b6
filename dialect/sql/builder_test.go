package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"email", "email"},
		{"created_at", "created_at"},
		{"user", `"user"`},
		{"order", `"order"`},
		{"CreatedAt", `"CreatedAt"`},
		{`we"ird`, `"we""ird"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
	assert.Equal(t, `public."user"`, QuoteTable("public.user"))
}

func TestValidIdentifiers(t *testing.T) {
	for _, s := range []string{"users", "blog_posts", "_tmp", "Users2", "public.users"} {
		assert.True(t, ValidTable(s), s)
	}
	for _, s := range []string{"", "1users", "users;drop", "my table", "public.", ".users", "a-b"} {
		assert.False(t, ValidTable(s), s)
	}
	assert.True(t, ValidColumn("deleted_at"))
	assert.False(t, ValidColumn("public.users"))
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ValidColumn(string(long)))
	assert.True(t, ValidColumn(string(long[:63])))
}

func TestSelect(t *testing.T) {
	t.Run("Columns", func(t *testing.T) {
		query, args := Select("id", "name").From("users").Query()
		assert.Equal(t, "SELECT id, name FROM users", query)
		assert.Empty(t, args)
	})
	t.Run("Star", func(t *testing.T) {
		query, _ := Select().From("user").Query()
		assert.Equal(t, `SELECT * FROM "user"`, query)
	})
	t.Run("Full", func(t *testing.T) {
		query, args := Select("id", "name").From("users").
			Where(And(EQ("status", "active"), IsNull("deleted_at"))).
			OrderBy(Desc("name")).
			Limit(10).
			Offset(20).
			Query()
		assert.Equal(t, "SELECT id, name FROM users WHERE status = $1 AND deleted_at IS NULL ORDER BY name DESC LIMIT $2 OFFSET $3", query)
		assert.Equal(t, []any{"active", 10, 20}, args)
	})
	t.Run("Count", func(t *testing.T) {
		query, args := SelectCount().From("users").Where(NotNull("deleted_at")).Query()
		assert.Equal(t, "SELECT COUNT(*) FROM users WHERE deleted_at IS NOT NULL", query)
		assert.Empty(t, args)
	})
	t.Run("WhereChain", func(t *testing.T) {
		query, args := Select("id").From("users").
			Where(GT("age", 18)).
			Where(nil).
			Where(LTE("age", 65)).
			OrderBy(By("id"), Asc("name")).
			Query()
		assert.Equal(t, "SELECT id FROM users WHERE age > $1 AND age <= $2 ORDER BY id, name ASC", query)
		assert.Equal(t, []any{18, 65}, args)
	})
	t.Run("Rerender", func(t *testing.T) {
		s := Select("id").From("users").Where(EQ("id", 1))
		q1, a1 := s.Query()
		q2, a2 := s.Query()
		assert.Equal(t, q1, q2)
		assert.Equal(t, a1, a2)
		assert.Equal(t, "SELECT id FROM users WHERE id = $1", q2)
	})
}

func TestPredicates(t *testing.T) {
	render := func(p Predicate) (string, []any) {
		b := &Builder{}
		p(b)
		return b.Query()
	}
	tests := []struct {
		name  string
		pred  Predicate
		query string
		args  []any
	}{
		{"EQ", EQ("name", "john"), "name = $1", []any{"john"}},
		{"NEQ", NEQ("status", "deleted"), "status <> $1", []any{"deleted"}},
		{"LT", LT("age", 3), "age < $1", []any{3}},
		{"GTE", GTE("age", 3), "age >= $1", []any{3}},
		{"Like", Like("name", "a%"), "name LIKE $1", []any{"a%"}},
		{"ILike", ILike("email", "%@acme.io"), "email ILIKE $1", []any{"%@acme.io"}},
		{"ILikeAny", ILikeAny([]string{"name", "email"}, "%jo%"), "(name ILIKE $1 OR email ILIKE $1)", []any{"%jo%"}},
		{"Or", Or(EQ("a", 1), EQ("b", 2)), "(a = $1 OR b = $2)", []any{1, 2}},
		{"Raw", EQ("updated_at", Now), "updated_at = NOW()", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := render(tt.pred)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.args, args)
		})
	}
	assert.Nil(t, And(nil, nil))
	assert.Nil(t, Or())
}

func TestCompareUnsupportedOperator(t *testing.T) {
	s := Select("id").From("users").Where(Compare("id", "; DROP", 1))
	s.Query()
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), `unsupported operator "; DROP"`)
}

func TestInsert(t *testing.T) {
	query, args := Insert("users").
		Set("name", "a8m").
		Set("created_at", Now).
		Set("deleted_at", Null).
		Set("age", 30).
		Returning("id", "name").
		Query()
	assert.Equal(t, "INSERT INTO users (name, created_at, deleted_at, age) VALUES ($1, NOW(), NULL, $2) RETURNING id, name", query)
	assert.Equal(t, []any{"a8m", 30}, args)

	query, args = Insert("users").Returning("id").Query()
	assert.Equal(t, "INSERT INTO users DEFAULT VALUES RETURNING id", query)
	assert.Empty(t, args)
}

func TestUpdate(t *testing.T) {
	u := Update("users").
		Set("name", "foo").
		Set("updated_at", Now).
		Where(EQ("id", int64(1))).
		Where(IsNull("deleted_at")).
		Returning("id", "name")
	query, args := u.Query()
	require.NoError(t, u.Err())
	assert.Equal(t, "UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL RETURNING id, name", query)
	assert.Equal(t, []any{"foo", int64(1)}, args)

	empty := Update("users").Where(EQ("id", 1))
	assert.True(t, empty.Empty())
	empty.Query()
	assert.Error(t, empty.Err())
}

func TestDelete(t *testing.T) {
	query, args := Delete("users").Where(EQ("id", int64(9))).Query()
	assert.Equal(t, "DELETE FROM users WHERE id = $1", query)
	assert.Equal(t, []any{int64(9)}, args)
}
