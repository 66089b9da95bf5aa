package sqlite

import (
	"context"
	"fmt"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/store"
)

// Lifecycle transitions. Each one deletes the source record and
// inserts its replacement inside a single transaction, so a book can
// never be both planned and reading, or both reading and reviewed,
// because of a partial failure.

// MovePlanToReading replaces a plan with an in-progress reading.
// Returns store.ErrNotFound if the plan does not exist, and
// store.ErrReadingExists if the book is somehow already being read.
func (s *Store) MovePlanToReading(ctx context.Context, planID string, reading *domain.Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	if err := deleteRow(ctx, tx, "plans", planID); err != nil {
		return err
	}
	if err := insertReading(ctx, tx, reading); err != nil {
		return err
	}
	return tx.Commit()
}

// MovePlanToReview replaces a plan with a review, skipping the
// reading state entirely.
// Returns store.ErrNotFound if the plan does not exist.
func (s *Store) MovePlanToReview(ctx context.Context, planID string, review *domain.Review) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	if err := deleteRow(ctx, tx, "plans", planID); err != nil {
		return err
	}
	if err := insertReview(ctx, tx, review); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.indexReview(ctx, review)
	return nil
}

// MoveReadingToReview replaces an in-progress reading with a review.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) MoveReadingToReview(ctx context.Context, readingID string, review *domain.Review) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	if err := deleteRow(ctx, tx, "readings", readingID); err != nil {
		return err
	}
	if err := insertReview(ctx, tx, review); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.indexReview(ctx, review)
	return nil
}

// deleteRow deletes one row by ID from a fixed table name.
// Returns store.ErrNotFound when nothing was deleted.
func deleteRow(ctx context.Context, tx execer, table, id string) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
