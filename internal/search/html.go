package search

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup reduces text to its plain-text content for indexing.
// Review texts can contain HTML pasted from elsewhere; tags would
// otherwise pollute the token stream ("<b>great</b>" indexing "b").
// Plain text passes through with whitespace collapsed.
func StripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return collapseWhitespace(s)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; keep whatever was collected.
			return collapseWhitespace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
