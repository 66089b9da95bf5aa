package googlebooks

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Google Books sometimes serves text that was UTF-8 encoded twice:
// each byte of the original UTF-8 sequence comes back as its own code
// point, so "é" (0xC3 0xA9) arrives as "Ã©" (U+00C3 U+00A9). For
// Latin-1-range text every such pair starts with U+00C3, which makes
// the damage detectable and reversible: fold the pair back into the
// code point 0xC0 + (second - 0x80).

const doubleEncodeMarker = 'Ã' // U+00C3, lead byte of two-byte UTF-8 sequences

// RepairText undoes double UTF-8 encoding and applies NFC
// normalization. Text without the marker rune passes through with
// only normalization.
func RepairText(s string) string {
	if !strings.ContainsRune(s, doubleEncodeMarker) {
		return norm.NFC.String(s)
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		if runes[i] == doubleEncodeMarker && i+1 < len(runes) {
			next := runes[i+1]
			if next >= 0x80 && next <= 0xBF {
				b.WriteRune(0xC0 + (next - 0x80))
				i++
				continue
			}
		}
		b.WriteRune(runes[i])
	}

	return norm.NFC.String(b.String())
}
