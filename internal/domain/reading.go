package domain

// Reading marks a book as currently in progress. Like Plan, at most
// one Reading may exist per (book, user) pair.
type Reading struct {
	Entity
	BookID      string `json:"book_id"`
	UserID      string `json:"user_id"`
	Note        string `json:"note,omitempty"`
	DateStarted *Date  `json:"date_started,omitempty"`

	// Book is the joined book record, populated on reads.
	Book *Book `json:"book,omitempty"`
}
