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

// CreatePlanRequest adds a book to the plan-to-read list.
type CreatePlanRequest struct {
	Book      BookInput    `json:"book"`
	Note      string       `json:"note,omitempty" validate:"max=2000"`
	DateAdded *domain.Date `json:"date_added,omitempty"` // Defaults to today
}

// UpdatePlanRequest modifies a plan entry. Nil fields are untouched.
type UpdatePlanRequest struct {
	Note      *string      `json:"note,omitempty" validate:"omitempty,max=2000"`
	DateAdded *domain.Date `json:"date_added,omitempty"`
}

// CreatePlan adds a book to the user's plan list, creating the book
// record first if it isn't known yet.
func (s *LogService) CreatePlan(ctx context.Context, userID string, req CreatePlanRequest) (*domain.Plan, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.resolveBook(ctx, req.Book)
	if err != nil {
		return nil, err
	}

	planID, err := id.Generate("plan")
	if err != nil {
		return nil, fmt.Errorf("generate plan ID: %w", err)
	}

	dateAdded := domain.Today()
	if req.DateAdded != nil {
		dateAdded = *req.DateAdded
	}

	plan := &domain.Plan{
		BookID:    book.ID,
		UserID:    userID,
		Note:      req.Note,
		DateAdded: dateAdded,
	}
	plan.ID = planID
	plan.InitTimestamps()

	if err := s.store.CreatePlan(ctx, plan); err != nil {
		if errors.Is(err, store.ErrPlanExists) {
			return nil, domainerrors.AlreadyExistsf("%q is already on your plan list", book.Title)
		}
		return nil, fmt.Errorf("create plan: %w", err)
	}

	plan.Book = book
	return plan, nil
}

// GetPlan returns one of the user's plan entries.
func (s *LogService) GetPlan(ctx context.Context, userID, planID string) (*domain.Plan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(userID, plan.UserID); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan edits a plan entry's note or date.
func (s *LogService) UpdatePlan(ctx context.Context, userID, planID string, req UpdatePlanRequest) (*domain.Plan, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if req.Note != nil {
		plan.Note = *req.Note
	}
	if req.DateAdded != nil {
		plan.DateAdded = *req.DateAdded
	}
	plan.Touch()

	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}

	return plan, nil
}

// DeletePlan removes a plan entry, freeing the book to be planned
// again later.
func (s *LogService) DeletePlan(ctx context.Context, userID, planID string) error {
	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return err
	}

	if err := s.store.DeletePlan(ctx, plan.ID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	s.logger.Info("deleted plan", "plan_id", planID, "user_id", userID)
	return nil
}

// ListPlans returns the user's plan list, most recently added first.
func (s *LogService) ListPlans(ctx context.Context, userID string) ([]*domain.Plan, error) {
	return s.store.ListPlans(ctx, userID)
}
