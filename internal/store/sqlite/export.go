package sqlite

import (
	"context"
	"iter"

	"github.com/shelflog/shelflog-server/internal/domain"
)

// --- Stream methods for CSV export ---

// StreamPlans returns an iterator over the user's plans with books
// joined in, in insertion order.
func (s *Store) StreamPlans(ctx context.Context, userID string) iter.Seq2[*domain.Plan, error] {
	return func(yield func(*domain.Plan, error) bool) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+planColumns+planJoin+`WHERE p.user_id = ? ORDER BY p.created_at ASC`, userID)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			p, err := scanPlan(rows)
			if !yield(p, err) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// StreamReadings returns an iterator over the user's readings with
// books joined in, in insertion order.
func (s *Store) StreamReadings(ctx context.Context, userID string) iter.Seq2[*domain.Reading, error] {
	return func(yield func(*domain.Reading, error) bool) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+readingColumns+readingJoin+`WHERE r.user_id = ? ORDER BY r.created_at ASC`, userID)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			r, err := scanReading(rows)
			if !yield(r, err) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// StreamReviews returns an iterator over the user's reviews with
// books joined in, in insertion order.
func (s *Store) StreamReviews(ctx context.Context, userID string) iter.Seq2[*domain.Review, error] {
	return func(yield func(*domain.Review, error) bool) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+reviewColumns+reviewJoin+`WHERE v.user_id = ? ORDER BY v.created_at ASC`, userID)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			v, err := scanReview(rows)
			if !yield(v, err) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}
