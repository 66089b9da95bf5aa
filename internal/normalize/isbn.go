package normalize

import "strings"

// registrantRange maps a span of leading body digits to the registrant
// element length for that span. min and max carry exactly length digits.
type registrantRange struct {
	min    int
	max    int
	length int
}

// registrantRanges holds the registrant splits for the registration
// groups this catalogue sees in practice, keyed by "prefix-group".
// Groups outside the table are left unhyphenated rather than guessed.
var registrantRanges = map[string][]registrantRange{
	"978-0": {
		{0, 19, 2},
		{200, 699, 3},
		{7000, 8499, 4},
		{85000, 89999, 5},
		{900000, 949999, 6},
		{9500000, 9999999, 7},
	},
	"978-1": {
		{0, 9, 2},
		{100, 399, 3},
		{4000, 5499, 4},
		{55000, 86979, 5},
		{869800, 998999, 6},
		{9990000, 9999999, 7},
	},
	"978-2": {
		{0, 19, 2},
		{200, 349, 3},
		{35000, 39999, 5},
		{400, 699, 3},
		{7000, 8399, 4},
		{84000, 89999, 5},
		{900000, 949999, 6},
		{9500000, 9999999, 7},
	},
	"978-4": {
		{0, 19, 2},
		{200, 699, 3},
		{7000, 8499, 4},
		{85000, 89999, 5},
		{900000, 949999, 6},
		{9500000, 9999999, 7},
	},
}

// MaskISBN renders an ISBN-10 or ISBN-13 in its hyphenated display
// form, e.g. "9780349107295" becomes "978-0-349-10729-5". Input may
// already carry hyphens or spaces. When the number is malformed or its
// registration group is not in the table, the compact form comes back
// unchanged.
func MaskISBN(isbn string) string {
	compact := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, isbn)

	switch len(compact) {
	case 10:
		if !isISBNBody(compact[:9]) || !isCheckDigit(compact[9]) {
			return compact
		}
		group, registrant, publication, ok := splitBody("978", compact[:9])
		if !ok {
			return compact
		}
		return group + "-" + registrant + "-" + publication + "-" + strings.ToUpper(compact[9:])
	case 13:
		prefix := compact[:3]
		if prefix != "978" && prefix != "979" {
			return compact
		}
		if !isISBNBody(compact[3:12]) || compact[12] < '0' || compact[12] > '9' {
			return compact
		}
		group, registrant, publication, ok := splitBody(prefix, compact[3:12])
		if !ok {
			return compact
		}
		return prefix + "-" + group + "-" + registrant + "-" + publication + "-" + compact[12:]
	default:
		return compact
	}
}

// splitBody separates the nine-digit body into group, registrant, and
// publication elements using the ranges table.
func splitBody(prefix, body string) (group, registrant, publication string, ok bool) {
	for n := 1; n <= 5 && n < len(body); n++ {
		ranges, found := registrantRanges[prefix+"-"+body[:n]]
		if !found {
			continue
		}
		rest := body[n:]
		for _, r := range ranges {
			if r.length >= len(rest) {
				continue
			}
			lead := digitsValue(rest[:r.length])
			if lead >= r.min && lead <= r.max {
				return body[:n], rest[:r.length], rest[r.length:], true
			}
		}
		return "", "", "", false
	}
	return "", "", "", false
}

func digitsValue(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v
}

func isISBNBody(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isCheckDigit accepts a digit or the X check symbol used by ISBN-10.
func isCheckDigit(c byte) bool {
	return (c >= '0' && c <= '9') || c == 'X' || c == 'x'
}
