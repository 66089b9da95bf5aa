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

// StartReadingRequest carries the optional details for moving a
// planned book to the reading list.
type StartReadingRequest struct {
	Note        *string      `json:"note,omitempty" validate:"omitempty,max=2000"` // Nil keeps the plan's note
	DateStarted *domain.Date `json:"date_started,omitempty"`                      // Defaults to today
}

// FinishBookRequest carries the review written when a planned or
// in-progress book is marked as read.
type FinishBookRequest struct {
	ReviewText   string       `json:"review_text,omitempty" validate:"max=20000"`
	DateRead     *domain.Date `json:"date_read,omitempty"` // Defaults to today
	DidNotFinish bool         `json:"did_not_finish,omitempty"`
	IsFavourite  bool         `json:"is_favourite,omitempty"`
}

// MarkPlanAsReading moves a planned book to the reading list. The
// plan entry is consumed; both sides happen in one transaction.
func (s *LogService) MarkPlanAsReading(ctx context.Context, userID, planID string, req StartReadingRequest) (*domain.Reading, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	reading, err := s.buildReading(plan, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.MovePlanToReading(ctx, planID, reading); err != nil {
		if errors.Is(err, store.ErrReadingExists) {
			return nil, domainerrors.AlreadyExistsf("you are already reading %q", bookTitle(plan.Book))
		}
		return nil, fmt.Errorf("move plan to reading: %w", err)
	}

	s.logger.Info("started reading",
		"user_id", userID,
		"book_id", plan.BookID,
		"reading_id", reading.ID,
	)

	reading.Book = plan.Book
	return reading, nil
}

// MarkPlanAsReviewed moves a planned book straight to reviewed,
// skipping the reading stage.
func (s *LogService) MarkPlanAsReviewed(ctx context.Context, userID, planID string, req FinishBookRequest) (*domain.Review, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	review, err := s.buildReview(plan.BookID, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.MovePlanToReview(ctx, planID, review); err != nil {
		return nil, fmt.Errorf("move plan to review: %w", err)
	}

	s.logger.Info("finished book from plan",
		"user_id", userID,
		"book_id", plan.BookID,
		"review_id", review.ID,
	)

	review.Book = plan.Book
	return review, nil
}

// MarkReadingAsReviewed finishes a book on the reading list, turning
// the reading entry into a review.
func (s *LogService) MarkReadingAsReviewed(ctx context.Context, userID, readingID string, req FinishBookRequest) (*domain.Review, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	reading, err := s.GetReading(ctx, userID, readingID)
	if err != nil {
		return nil, err
	}

	review, err := s.buildReview(reading.BookID, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.MoveReadingToReview(ctx, readingID, review); err != nil {
		return nil, fmt.Errorf("move reading to review: %w", err)
	}

	s.logger.Info("finished book",
		"user_id", userID,
		"book_id", reading.BookID,
		"review_id", review.ID,
	)

	review.Book = reading.Book
	return review, nil
}

func (s *LogService) buildReading(plan *domain.Plan, req StartReadingRequest) (*domain.Reading, error) {
	readingID, err := id.Generate("reading")
	if err != nil {
		return nil, fmt.Errorf("generate reading ID: %w", err)
	}

	note := plan.Note
	if req.Note != nil {
		note = *req.Note
	}

	dateStarted := domain.Today()
	if req.DateStarted != nil {
		dateStarted = *req.DateStarted
	}

	reading := &domain.Reading{
		BookID:      plan.BookID,
		UserID:      plan.UserID,
		Note:        note,
		DateStarted: &dateStarted,
	}
	reading.ID = readingID
	reading.InitTimestamps()

	return reading, nil
}

func (s *LogService) buildReview(bookID, userID string, req FinishBookRequest) (*domain.Review, error) {
	reviewID, err := id.Generate("review")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	dateRead := req.DateRead
	if dateRead == nil {
		today := domain.Today()
		dateRead = &today
	}

	review := &domain.Review{
		BookID:       bookID,
		UserID:       userID,
		ReviewText:   req.ReviewText,
		DateRead:     dateRead,
		DidNotFinish: req.DidNotFinish,
		IsFavourite:  req.IsFavourite,
	}
	review.ID = reviewID
	review.InitTimestamps()

	return review, nil
}

func bookTitle(book *domain.Book) string {
	if book == nil {
		return "this book"
	}
	return book.Title
}
