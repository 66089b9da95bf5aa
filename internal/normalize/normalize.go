// Package normalize provides utilities for normalizing book metadata for display.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Typographic characters used by SmartQuotes.
const (
	leftDouble  = '“' // "
	rightDouble = '”' // "
	leftSingle  = '‘' // '
	rightSingle = '’' // '
	enDash      = "–"
	emDash      = "—"
	ellipsis    = "…"
)

// dashReplacer handles dash and ellipsis substitutions.
// Triple dash must come before double dash so it wins at the same position.
var dashReplacer = strings.NewReplacer(
	"---", emDash,
	"--", enDash,
	"...", ellipsis,
)

// SmartQuotes applies typographic substitutions to display text:
// straight quotes become curly quotes, runs of hyphens become dashes,
// and three dots become an ellipsis.
func SmartQuotes(s string) string {
	if s == "" {
		return s
	}

	s = dashReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))

	prev := rune(0)
	for _, r := range s {
		switch r {
		case '"':
			if isOpeningContext(prev) {
				b.WriteRune(leftDouble)
			} else {
				b.WriteRune(rightDouble)
			}
		case '\'':
			// An apostrophe inside or after a word always curls right.
			if isOpeningContext(prev) {
				b.WriteRune(leftSingle)
			} else {
				b.WriteRune(rightSingle)
			}
		default:
			b.WriteRune(r)
		}
		prev = r
	}

	return b.String()
}

// isOpeningContext reports whether a quote following prev opens a quotation.
func isOpeningContext(prev rune) bool {
	if prev == 0 {
		return true
	}
	if unicode.IsSpace(prev) {
		return true
	}
	switch prev {
	case '(', '[', '{', '–', '—':
		return true
	}
	return false
}

// yearPattern matches date strings of the forms 2010, 2009-08, 2019-04-15.
// Anchored so partial matches inside longer strings do not count.
var yearPattern = regexp.MustCompile(`^(\d{4})(?:-\d{2})?(?:-\d{2})?$`)

// PublishedYear extracts the four-digit year from a published date string.
// Returns the empty string when the date doesn't have a recognized shape.
func PublishedYear(published string) string {
	m := yearPattern.FindStringSubmatch(published)
	if m == nil {
		return ""
	}
	return m[1]
}

// JoinAuthors flattens a list of author names into a single display
// string, separated by ", ". Each name gets typographic quotes applied.
func JoinAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		parts = append(parts, SmartQuotes(a))
	}
	return strings.Join(parts, ", ")
}
