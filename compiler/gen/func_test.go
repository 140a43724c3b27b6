package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Username", "username"},
		{"FullName", "full_name"},
		{"HTTPCode", "http_code"},
		{"UserID", "user_id"},
		{"XMLParser", "xml_parser"},
		{"getHTTPResponse", "get_http_response"},
		{"already_snake", "already_snake"},
		{"A", "a"},
		{"AB", "ab"},
		{"", ""},
		{"userInfo", "user_info"},
		{"BlogPost", "blog_post"},
		{"CreatedAt", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, snake(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "UserInfo"},
		{"full_name", "FullName"},
		{"user_id", "UserID"},
		{"http_code", "HTTPCode"},
		{"full-admin", "FullAdmin"},
		{"already", "Already"},
		{"a_b", "AB"},
		{"api_url", "APIURL"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "userInfo"},
		{"user_id", "userID"},
		{"http_code", "httpCode"},
		{"full-admin", "fullAdmin"},
		{"user", "user"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, camel(tt.input))
		})
	}
}

func TestReceiver(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "u"},
		{"UserRepository", "ur"},
		{"BlogPostRepository", "bpr"},
		{"[]User", "u"},
		{"*User", "u"},
		{"HTTPClient", "hc"},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, receiver(tt.input))
		})
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		record string
		table  string
	}{
		{"User", "users"},
		{"BlogPost", "blog_posts"},
		{"Category", "categories"},
		{"Key", "keys"},
		{"Day", "days"},
		{"Address", "addresses"},
		{"Box", "boxes"},
		{"Match", "matches"},
		{"Wish", "wishes"},
		{"Buzz", "buzzes"},
		// Irregular nouns are not special-cased.
		{"Person", "persons"},
		{"Child", "childs"},
	}

	for _, tt := range tests {
		t.Run(tt.record, func(t *testing.T) {
			assert.Equal(t, tt.table, tableName(tt.record))
		})
	}
}

func TestNameHelpers(t *testing.T) {
	typ := &Type{Name: "BlogPost"}
	assert.Equal(t, "blog_post", typ.Label())
	assert.Equal(t, "BlogPostRepository", typ.RepositoryName())
	assert.Equal(t, "bpr", typ.Receiver())
	assert.Equal(t, "CreateBlogPost", typ.CreateName())
	assert.Equal(t, "UpdateBlogPost", typ.UpdateName())
	assert.Equal(t, "scanBlogPost", typ.ScanName())
	assert.Equal(t, "blogPostSpec", typ.SpecName())
	assert.Equal(t, "blogPostFindByIDQuery", typ.QueryName("FindByID"))
	assert.Equal(t, "BlogPostColumns", typ.ColumnsName())
	assert.Equal(t, "BlogPostTable", typ.TableName())
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, isKeyword("func"))
	assert.True(t, isKeyword("type"))
	assert.False(t, isKeyword("user"))
}
