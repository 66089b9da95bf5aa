package domain

// Plan records the intent to read a book. A book can appear at most
// once in a user's plan list; creating a second Plan for the same
// (book, user) pair fails.
type Plan struct {
	Entity
	BookID    string `json:"book_id"`
	UserID    string `json:"user_id"`
	Note      string `json:"note,omitempty"`
	DateAdded Date   `json:"date_added"`

	// Book is the joined book record, populated on reads.
	Book *Book `json:"book,omitempty"`
}
