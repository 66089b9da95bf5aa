package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelflog/shelflog-server/internal/domain"
	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
	"github.com/shelflog/shelflog-server/internal/id"
	"github.com/shelflog/shelflog-server/internal/store"
)

// CreateReadingRequest marks a book as currently being read, without
// it having been planned first.
type CreateReadingRequest struct {
	Book        BookInput    `json:"book"`
	Note        string       `json:"note,omitempty" validate:"max=2000"`
	DateStarted *domain.Date `json:"date_started,omitempty"` // Nil when unknown
}

// UpdateReadingRequest modifies a reading entry. Nil fields are untouched.
type UpdateReadingRequest struct {
	Note        *string      `json:"note,omitempty" validate:"omitempty,max=2000"`
	DateStarted *domain.Date `json:"date_started,omitempty"`
}

// CreateReading marks a book as being read, creating the book record
// first if it isn't known yet.
func (s *LogService) CreateReading(ctx context.Context, userID string, req CreateReadingRequest) (*domain.Reading, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.resolveBook(ctx, req.Book)
	if err != nil {
		return nil, err
	}

	readingID, err := id.Generate("reading")
	if err != nil {
		return nil, fmt.Errorf("generate reading ID: %w", err)
	}

	reading := &domain.Reading{
		BookID:      book.ID,
		UserID:      userID,
		Note:        req.Note,
		DateStarted: req.DateStarted,
	}
	reading.ID = readingID
	reading.InitTimestamps()

	if err := s.store.CreateReading(ctx, reading); err != nil {
		if errors.Is(err, store.ErrReadingExists) {
			return nil, domainerrors.AlreadyExistsf("you are already reading %q", book.Title)
		}
		return nil, fmt.Errorf("create reading: %w", err)
	}

	reading.Book = book
	return reading, nil
}

// GetReading returns one of the user's reading entries.
func (s *LogService) GetReading(ctx context.Context, userID, readingID string) (*domain.Reading, error) {
	reading, err := s.store.GetReading(ctx, readingID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(userID, reading.UserID); err != nil {
		return nil, err
	}
	return reading, nil
}

// UpdateReading edits a reading entry's note or start date.
func (s *LogService) UpdateReading(ctx context.Context, userID, readingID string, req UpdateReadingRequest) (*domain.Reading, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	reading, err := s.GetReading(ctx, userID, readingID)
	if err != nil {
		return nil, err
	}

	if req.Note != nil {
		reading.Note = *req.Note
	}
	if req.DateStarted != nil {
		reading.DateStarted = req.DateStarted
	}
	reading.Touch()

	if err := s.store.UpdateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("update reading: %w", err)
	}

	return reading, nil
}

// DeleteReading removes a reading entry without writing a review.
func (s *LogService) DeleteReading(ctx context.Context, userID, readingID string) error {
	reading, err := s.GetReading(ctx, userID, readingID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReading(ctx, reading.ID); err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}

	s.logger.Info("deleted reading", "reading_id", readingID, "user_id", userID)
	return nil
}

// ListReadings returns the books the user is currently reading.
func (s *LogService) ListReadings(ctx context.Context, userID string) ([]*domain.Reading, error) {
	return s.store.ListReadings(ctx, userID)
}
