package normalize

import "testing"

func TestMaskISBN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"isbn13 group 0", "9780349107295", "978-0-349-10729-5"},
		{"isbn13 group 1", "9781554042951", "978-1-55404-295-1"},
		{"isbn13 group 2", "9782070360024", "978-2-07-036002-4"},
		{"isbn13 group 4", "9784062748681", "978-4-06-274868-1"},
		{"isbn10 group 0", "0349107295", "0-349-10729-5"},
		{"isbn10 short registrant", "0070360022", "0-07-036002-2"},
		{"isbn10 x check digit", "155404295X", "1-55404-295-X"},
		{"lowercase x uppercased", "155404295x", "1-55404-295-X"},
		{"already hyphenated", "978-0-349-10729-5", "978-0-349-10729-5"},
		{"spaces stripped", "978 0 349 10729 5", "978-0-349-10729-5"},
		{"unknown group passes through", "9789998887776", "9789998887776"},
		{"bad prefix passes through", "9770349107295", "9770349107295"},
		{"wrong length passes through", "123456", "123456"},
		{"not digits passes through", "97803491072ab", "97803491072ab"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskISBN(tt.in); got != tt.want {
				t.Errorf("MaskISBN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
