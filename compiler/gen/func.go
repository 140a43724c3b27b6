package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	// acronyms holds the initialisms kept upper-case by pascal and camel.
	acronyms = make(map[string]struct{})
	// rules is used for identifier casing.
	rules = ruleset()
	// tables pluralizes derived table names.
	tables = tableRuleset()
	// importPkg holds the package names imported by generated files.
	importPkg = names("context", "errors", "fmt", "time", "uuid", "pq", "dialect", "sql", "sqlrepo", "repogen", "field")
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "MAC", "MB", "QPS",
		"RAM", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TLS", "TTL", "UI",
		"UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// tableRuleset returns the fixed table-name pluralization rules. Rules added
// later are matched first:
//
//	...ay, ...ey, ...oy, ...uy  -> +s       (key -> keys)
//	...y                        -> ...ies   (category -> categories)
//	...s, ...x, ...z, ...ch, ...sh -> +es   (address -> addresses)
//	anything else               -> +s       (user -> users)
//
// Irregular nouns are not handled; use the table annotation for those.
func tableRuleset() *inflect.Ruleset {
	rs := inflect.NewRuleset()
	for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
		rs.AddPlural(suffix, suffix+"es")
	}
	rs.AddPlural("y", "ies")
	for _, suffix := range []string{"ay", "ey", "oy", "uy"} {
		rs.AddPlural(suffix, suffix+"s")
	}
	return rs
}

// tableName derives the table name of a record, e.g. BlogPost -> blog_posts.
func tableName(record string) string {
	return tables.Pluralize(snake(record))
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given name into a PascalCase.
//
//	user_info 	=> UserInfo
//	full_name 	=> FullName
//	user_id   	=> UserID
//	full-admin	=> FullAdmin
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	return pascalWords(words)
}

// camel converts the given name into a camelCase.
//
//	user_info  => userInfo
//	full_name  => fullName
//	user_id    => userID
//	full-admin => fullAdmin
func camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		return strings.ToLower(words[0])
	}
	return strings.ToLower(words[0]) + pascalWords(words[1:])
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// receiver returns the receiver name of the given type.
//
//	[]T       => t
//	[1]T      => t
//	User      => u
//	UserQuery => uq
func receiver(s string) (r string) {
	// Trim invalid tokens for identifier prefix.
	s = strings.Trim(s, "[]*&0123456789")
	parts := strings.Split(snake(s), "_")
	min := len(parts[0])
	for _, w := range parts[1:] {
		if len(w) < min {
			min = len(w)
		}
	}
	for i := 1; i < min; i++ {
		r := parts[0][:i]
		for _, w := range parts[1:] {
			r += w[:i]
		}
		if _, ok := importPkg[r]; !ok {
			s = r
			break
		}
	}
	name := strings.ToLower(s)
	if isKeyword(name) {
		name = "_" + name
	}
	return name
}

// names returns a set of the given identifiers.
func names(ids ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// exported reports whether name can name an exported record or field.
func exported(name string) bool {
	return token.IsIdentifier(name) && token.IsExported(name)
}

// exportedName suggests an exported identifier for name.
func exportedName(name string) string {
	if n := pascal(name); exported(n) {
		return n
	}
	return "Name"
}

func isKeyword(s string) bool {
	return token.Lookup(s).IsKeyword()
}
