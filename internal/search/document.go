// Package search provides full-text search over a user's reading log
// using Bleve. Books and review texts are indexed as a unified
// document type so a single query covers both.
package search

import (
	"strconv"

	"github.com/shelflog/shelflog-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook   DocType = "book"
	DocTypeReview DocType = "review"
)

// Document is the unified document structure for the Bleve index.
//
// Book fields (title, author) are denormalized into review documents
// so a review hit can be resolved to its book without a store lookup.
type Document struct {
	// Identity
	ID   string  `json:"id"`   // Entity ID (book_xxx or review_xxx)
	Type DocType `json:"type"` // Discriminator for result grouping

	// Primary searchable text. Book: title. Review: title too, the
	// review is still about a book.
	Name string `json:"name"`

	Author string `json:"author,omitempty"`

	// Review-specific fields
	ReviewText string `json:"review_text,omitempty"` // Markup stripped before indexing
	UserID     string `json:"user_id,omitempty"`     // Reviews are scoped to their writer
	BookID     string `json:"book_id,omitempty"`

	// Numeric fields for range queries and sorting
	Year int `json:"year,omitempty"`

	// Timestamps for sorting
	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names so
// they match the index mapping. Bleve would otherwise index under the
// capitalized Go field names.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.ReviewText != "" {
		m["review_text"] = d.ReviewText
	}
	if d.UserID != "" {
		m["user_id"] = d.UserID
	}
	if d.BookID != "" {
		m["book_id"] = d.BookID
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}

	return m
}

// BookDocument converts a book to an index document.
func BookDocument(book *domain.Book) *Document {
	doc := &Document{
		ID:        book.ID,
		Type:      DocTypeBook,
		Name:      book.Title,
		Author:    book.Author,
		BookID:    book.ID,
		CreatedAt: book.CreatedAt.UnixMilli(),
		UpdatedAt: book.UpdatedAt.UnixMilli(),
	}

	// Partial years like "19??" simply don't index as a number.
	if year, err := strconv.Atoi(book.Year); err == nil {
		doc.Year = year
	}

	return doc
}

// ReviewDocument converts a review to an index document. The book is
// required for the denormalized title and author fields.
func ReviewDocument(review *domain.Review, book *domain.Book) *Document {
	return &Document{
		ID:         review.ID,
		Type:       DocTypeReview,
		Name:       book.Title,
		Author:     book.Author,
		ReviewText: StripMarkup(review.ReviewText),
		UserID:     review.UserID,
		BookID:     review.BookID,
		CreatedAt:  review.CreatedAt.UnixMilli(),
		UpdatedAt:  review.UpdatedAt.UnixMilli(),
	}
}
