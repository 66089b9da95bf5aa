package service

import (
	"context"
	"fmt"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/id"
)

// CreateReviewRequest logs a finished (or abandoned) book directly,
// without going through the plan or reading stages.
type CreateReviewRequest struct {
	Book         BookInput    `json:"book"`
	ReviewText   string       `json:"review_text,omitempty" validate:"max=20000"`
	DateRead     *domain.Date `json:"date_read,omitempty"` // Nil when unknown
	DidNotFinish bool         `json:"did_not_finish,omitempty"`
	IsFavourite  bool         `json:"is_favourite,omitempty"`
}

// UpdateReviewRequest modifies a review. Nil fields are untouched.
type UpdateReviewRequest struct {
	ReviewText   *string      `json:"review_text,omitempty" validate:"omitempty,max=20000"`
	DateRead     *domain.Date `json:"date_read,omitempty"`
	DidNotFinish *bool        `json:"did_not_finish,omitempty"`
	IsFavourite  *bool        `json:"is_favourite,omitempty"`
}

// CreateReview logs a review for a book, creating the book record
// first if it isn't known yet. Reviews are unconstrained: logging the
// same book twice records a re-read.
func (s *LogService) CreateReview(ctx context.Context, userID string, req CreateReviewRequest) (*domain.Review, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.resolveBook(ctx, req.Book)
	if err != nil {
		return nil, err
	}

	reviewID, err := id.Generate("review")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	review := &domain.Review{
		BookID:       book.ID,
		UserID:       userID,
		ReviewText:   req.ReviewText,
		DateRead:     req.DateRead,
		DidNotFinish: req.DidNotFinish,
		IsFavourite:  req.IsFavourite,
	}
	review.ID = reviewID
	review.InitTimestamps()

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	review.Book = book
	return review, nil
}

// GetReview returns one of the user's reviews.
func (s *LogService) GetReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(userID, review.UserID); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview edits a review's text, date, or flags.
func (s *LogService) UpdateReview(ctx context.Context, userID, reviewID string, req UpdateReviewRequest) (*domain.Review, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	review, err := s.GetReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.ReviewText != nil {
		review.ReviewText = *req.ReviewText
	}
	if req.DateRead != nil {
		review.DateRead = req.DateRead
	}
	if req.DidNotFinish != nil {
		review.DidNotFinish = *req.DidNotFinish
	}
	if req.IsFavourite != nil {
		review.IsFavourite = *req.IsFavourite
	}
	review.Touch()

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

// DeleteReview removes a review from the log.
func (s *LogService) DeleteReview(ctx context.Context, userID, reviewID string) error {
	review, err := s.GetReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("deleted review", "review_id", reviewID, "user_id", userID)
	return nil
}

// ListReviews returns the user's reviews, most recently read first.
func (s *LogService) ListReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	return s.store.ListReviews(ctx, userID)
}
