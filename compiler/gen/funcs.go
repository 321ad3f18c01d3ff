package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// rules holds the pluralization ruleset shared by all naming helpers.
// A single ruleset keeps derived names deterministic across runs.
var rules = ruleset()

// acronyms are words kept upper-case by pascal/camel conversion.
var acronyms = make(map[string]struct{})

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP",
		"HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC",
		"SLA", "SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI",
		"UID", "UUID", "URI", "URL", "UTF8", "VM", "XML", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers a word to be kept upper-case by the naming
// helpers. Intended for project-specific initialisms.
func AddAcronym(word string) {
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// snake converts a name to snake_case. Acronym runs stay together,
// including a trailing plural "s" (UserIDs => user_ids).
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			prev := rune(s[i-1])
			next := rune(s[i+1])
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteRune('_')
			case unicode.IsUpper(prev) && unicode.IsLower(next) && !pluralTail(s, i+1):
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// pluralTail reports if s[i:] is a bare plural "s" ending the word,
// as in the "s" of "UserIDs".
func pluralTail(s string, i int) bool {
	return s[i] == 's' && (i == len(s)-1 || isSeparator(rune(s[i+1])))
}

// words splits a name on separators and case boundaries.
func words(s string) []string {
	var (
		out   []string
		start int
	)
	snaked := snake(s)
	for i, r := range snaked {
		if isSeparator(r) {
			if i > start {
				out = append(out, snaked[start:i])
			}
			start = i + 1
		}
	}
	if start < len(snaked) {
		out = append(out, snaked[start:])
	}
	return out
}

// pascal converts a name to PascalCase, upper-casing known acronyms.
func pascal(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(pascalWord(w))
	}
	return b.String()
}

func pascalWord(w string) string {
	if w == "" {
		return w
	}
	if upper := strings.ToUpper(w); len(w) == 1 {
		return upper
	} else if _, ok := acronyms[upper]; ok {
		return upper
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// camel converts a name to camelCase. The leading word is kept lower,
// later words follow pascal rules (user_id => userID).
func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(ws[0]))
	for _, w := range ws[1:] {
		b.WriteString(pascalWord(w))
	}
	return b.String()
}

// plural returns the plural form of a name, preserving its casing
// style. Uncountable names get a distinguishing suffix so the derived
// name never collides with the input.
func plural(s string) string {
	p := rules.Pluralize(s)
	if p == s {
		p += "Slice"
	}
	return p
}

// singular returns the singular form of a name. Names whose singular
// equals their plural are returned unchanged.
func singular(s string) string {
	return rules.Singularize(s)
}

// receiver derives a short receiver name from a type name:
// one letter per word (UserQuery => uq).
func receiver(s string) string {
	s = strings.TrimPrefix(s, "*")
	if i := strings.IndexByte(s, ']'); i >= 0 {
		s = s[i+1:]
	}
	var b strings.Builder
	for _, w := range words(s) {
		if w != "" {
			b.WriteByte(w[0])
		}
	}
	if b.Len() == 0 {
		return "_x"
	}
	return b.String()
}

// Pascal exposes the PascalCase variant to emitters in other packages.
func Pascal(s string) string { return pascal(s) }

// Camel exposes the camelCase variant to emitters in other packages.
func Camel(s string) string { return camel(s) }
