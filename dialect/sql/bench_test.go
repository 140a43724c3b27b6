package sql

import (
	"testing"
)

func BenchmarkInsertBuilder_Default(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Insert("users").Returning("id").Query()
	}
}

func BenchmarkInsertBuilder_Small(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Insert("users").
			Set("age", 30).
			Set("first_name", "Ariel").
			Set("last_name", "Mashraki").
			Set("nickname", "a8m").
			Set("created_at", Now).
			Set("updated_at", Now).
			Returning("id", "age", "first_name", "last_name", "nickname", "created_at", "updated_at").
			Query()
	}
}

func BenchmarkSelectBuilder_Simple(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Select("id", "name", "email").From("users").Query()
	}
}

func BenchmarkSelectBuilder_Search(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Select("id", "name", "email").
			From("users").
			Where(And(
				ILikeAny([]string{"name", "email"}, "%jo%"),
				EQ("status", "active"),
				IsNull("deleted_at"),
			)).
			OrderBy(Desc("created_at")).
			Limit(20).
			Offset(40).
			Query()
	}
}

func BenchmarkUpdateBuilder_Simple(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Update("users").
			Set("name", "foo").
			Set("updated_at", Now).
			Where(And(EQ("id", 1), IsNull("deleted_at"))).
			Returning("id", "name").
			Query()
	}
}

func BenchmarkDeleteBuilder_Simple(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Delete("users").Where(EQ("id", 1)).Query()
	}
}
