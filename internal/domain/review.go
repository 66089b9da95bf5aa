package domain

// Review records a finished (or abandoned) reading of a book.
// There is no uniqueness constraint: re-reads produce multiple Reviews
// for the same (book, user) pair, and a Review can coexist with a
// fresh Plan or Reading for the same book.
type Review struct {
	Entity
	BookID       string `json:"book_id"`
	UserID       string `json:"user_id"`
	ReviewText   string `json:"review_text,omitempty"`
	DateRead     *Date  `json:"date_read,omitempty"` // nil when the read date is unknown
	DidNotFinish bool   `json:"did_not_finish"`
	IsFavourite  bool   `json:"is_favourite"`

	// Book is the joined book record, populated on reads.
	Book *Book `json:"book,omitempty"`
}
