package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers an initialism that is kept upper-cased in
// generated identifiers. It must be called before generation starts.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
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

func pascalWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
			continue
		}
		b.WriteString(rules.Capitalize(w))
	}
	return b.String()
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
		if isSeparator(r) {
			r = '_'
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Namer derives identifiers, variables and URL segments from table names.
// Implementations must be safe for concurrent use.
type Namer interface {
	// ClassName returns the type name for a table, e.g. "blog_post" => "BlogPost".
	ClassName(s string) string
	// ClassMethod returns an exported method name, e.g. "getId" => "GetID".
	ClassMethod(s string) string
	// Variable returns a variable name, e.g. "blog_post" => "blogPost".
	Variable(s string) string
	// PluralVariable returns the plural variable name, e.g. "blog_post" => "blogPosts".
	PluralVariable(s string) string
	// URL returns a URL path segment, e.g. "blog_post" => "blog-post".
	URL(s string) string
	// PluralURL returns the plural URL path segment, e.g. "blog_post" => "blog-posts".
	PluralURL(s string) string
	// Plural returns the plural of the name, e.g. "category" => "categories".
	Plural(s string) string
	// TitleCase returns the title-cased words of the name joined with sep,
	// e.g. ("blog_posts", " ") => "Blog Posts".
	TitleCase(s, sep string) string
}

// InflectNamer is the default Namer. It follows Go naming conventions,
// keeping common initialisms upper-cased.
type InflectNamer struct{}

var _ Namer = InflectNamer{}

// ClassName implements Namer.
func (InflectNamer) ClassName(s string) string { return pascal(snake(s)) }

// ClassMethod implements Namer.
func (InflectNamer) ClassMethod(s string) string { return pascal(snake(s)) }

// Variable implements Namer. Names that collide with Go keywords are
// prefixed with an underscore.
func (InflectNamer) Variable(s string) string {
	v := camel(snake(s))
	if token.Lookup(v).IsKeyword() {
		v = "_" + v
	}
	return v
}

// PluralVariable implements Namer.
func (n InflectNamer) PluralVariable(s string) string { return n.Variable(n.Plural(s)) }

// URL implements Namer.
func (InflectNamer) URL(s string) string {
	return strings.Join(strings.FieldsFunc(snake(s), isSeparator), "-")
}

// PluralURL implements Namer.
func (n InflectNamer) PluralURL(s string) string { return n.URL(n.Plural(s)) }

// Plural implements Namer.
func (InflectNamer) Plural(s string) string { return rules.Pluralize(s) }

// TitleCase implements Namer.
func (InflectNamer) TitleCase(s, sep string) string {
	// Casers keep state and cannot be shared between goroutines.
	title := cases.Title(language.English)
	words := strings.FieldsFunc(snake(s), isSeparator)
	for i, w := range words {
		words[i] = title.String(w)
	}
	return strings.Join(words, sep)
}
