package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelflog/shelflog-server/internal/domain"
	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
	"github.com/shelflog/shelflog-server/internal/id"
	"github.com/shelflog/shelflog-server/internal/store"
)

// LogService is the reading-log engine. It owns the lifecycle of a
// tracked book: planned, being read, reviewed. Books move between
// stages through the Mark* transitions; each stage also supports
// direct CRUD.
type LogService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLogService creates a new log service.
func NewLogService(store store.Store, logger *slog.Logger) *LogService {
	return &LogService{
		store:  store,
		logger: logger,
	}
}

// BookInput identifies the book a log entry refers to, typically
// copied from a metadata search result.
type BookInput struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author,omitempty"`
	Year            string `json:"year,omitempty"`
	SourceID        string `json:"source_id" validate:"required"`
	ImageURL        string `json:"image_url,omitempty"`
	ISBN10          string `json:"isbn_10,omitempty"`
	ISBN13          string `json:"isbn_13,omitempty"`
	IdentifiersJSON string `json:"identifiers_json,omitempty"`
}

// resolveBook finds or creates the shared book record for an input.
// When the book already exists, the stored record wins: repeated adds
// never overwrite metadata that is already on file.
func (s *LogService) resolveBook(ctx context.Context, input BookInput) (*domain.Book, error) {
	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Title:           input.Title,
		Author:          input.Author,
		Year:            input.Year,
		SourceID:        input.SourceID,
		ImageURL:        input.ImageURL,
		ISBN10:          input.ISBN10,
		ISBN13:          input.ISBN13,
		IdentifiersJSON: input.IdentifiersJSON,
	}
	book.ID = bookID
	book.InitTimestamps()

	stored, created, err := s.store.CreateOrGetBook(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("resolve book: %w", err)
	}

	if created {
		s.logger.Info("added book",
			"book_id", stored.ID,
			"title", stored.Title,
		)
	}

	return stored, nil
}

// requireOwner verifies that a log entry belongs to the acting user.
func requireOwner(userID, ownerID string) error {
	if ownerID != userID {
		return domainerrors.Unauthorized("entry belongs to another user")
	}
	return nil
}
