// Package slug turns human-readable project titles into URL-safe keys.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const separator = "-"

// Make returns the project key for title: diacritics stripped, lowercased,
// every run of characters outside [a-z0-9] collapsed to a single '-', with
// leading and trailing separators trimmed.
//
// A separator is never emitted between a letter and a following digit, so
// designations such as "NR-13", "NR 13" and "nr13" share one key.
// Make(Make(s)) == Make(s).
func Make(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, title)
	if err != nil {
		stripped = title
	}

	words := strings.FieldsFunc(strings.ToLower(stripped), func(r rune) bool {
		return !isAlnum(r)
	})

	var b strings.Builder
	b.Grow(len(stripped))
	for i, w := range words {
		if i > 0 && !(isLetter(lastByte(words[i-1])) && isDigit(w[0])) {
			b.WriteString(separator)
		}
		b.WriteString(w)
	}
	return b.String()
}

// OrDefault is Make with a fallback key for titles that normalize to nothing.
func OrDefault(title, fallback string) string {
	if key := Make(title); key != "" {
		return key
	}
	return Make(fallback)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lastByte(s string) byte { return s[len(s)-1] }
