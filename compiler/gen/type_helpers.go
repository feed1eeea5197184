package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms from golint.
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
		"ID", "IP", "JSON", "QPS", "RAM", "RPC", "SLA", "SMTP", "SQL", "SSH", "TCP", "TLS",
		"TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// pascal converts the given name into PascalCase.
//
//	user_info  => UserInfo
//	full-name  => FullName
//	user_id    => UserID
//	firstName  => FirstName
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
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

// snake converts the given name into snake_case.
//
//	Person     => person
//	UserInfo   => user_info
func snake(s string) string {
	return rules.Underscore(s)
}

// exported reports whether s is an exported Go identifier.
func exported(s string) bool {
	return token.IsIdentifier(s) && token.IsExported(s)
}

// names returns a set of the given identifiers.
func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

