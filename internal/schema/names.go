package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// splitWords breaks an identifier into lower-case words. Words end at any
// character that is not a letter or digit, at a lower-to-upper transition and
// before the last capital of an acronym followed by lower case (HTTPCode ->
// http, code).
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev), unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ConstantCase converts an identifier to UPPER_SNAKE form.
func ConstantCase(s string) string {
	return strings.ToUpper(strings.Join(splitWords(s), "_"))
}

// PascalCase converts an identifier to PascalCase.
func PascalCase(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// ClassName is the singular PascalCase type name generated for a table.
func ClassName(table string) string {
	return PascalCase(inflection.Singular(table))
}
