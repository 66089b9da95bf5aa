package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/id"
	"github.com/shelflog/shelflog-server/internal/store"
)

func newTestReview(t *testing.T, s *Store, u *domain.User, b *domain.Book, read *domain.Date) *domain.Review {
	t.Helper()
	v := &domain.Review{
		BookID:     b.ID,
		UserID:     u.ID,
		ReviewText: "loved it",
		DateRead:   read,
	}
	v.ID = id.MustGenerate("rev")
	v.InitTimestamps()
	if err := s.CreateReview(context.Background(), v); err != nil {
		t.Fatalf("create review: %v", err)
	}
	return v
}

func TestCreateAndGetReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "lexie")
	b := mustCreateBook(t, s, "gb-1")
	read := domain.Date{Year: 2024, Month: time.June, Day: 1}
	v := newTestReview(t, s, u, b, &read)

	got, err := s.GetReview(ctx, v.ID)
	if err != nil {
		t.Fatalf("get review: %v", err)
	}
	if got.ReviewText != "loved it" {
		t.Errorf("review text = %q", got.ReviewText)
	}
	if got.DateRead == nil || *got.DateRead != read {
		t.Errorf("date read = %v, want %v", got.DateRead, read)
	}
	if got.DidNotFinish || got.IsFavourite {
		t.Errorf("flags should default to false: %+v", got)
	}
	if got.Book == nil || got.Book.ID != b.ID {
		t.Fatalf("book not joined: %+v", got.Book)
	}
}

func TestReviewFlagsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "lexie")
	b := mustCreateBook(t, s, "gb-1")

	v := &domain.Review{
		BookID:       b.ID,
		UserID:       u.ID,
		DidNotFinish: true,
		IsFavourite:  true,
	}
	v.ID = id.MustGenerate("rev")
	v.InitTimestamps()
	if err := s.CreateReview(ctx, v); err != nil {
		t.Fatalf("create review: %v", err)
	}

	got, err := s.GetReview(ctx, v.ID)
	if err != nil {
		t.Fatalf("get review: %v", err)
	}
	if !got.DidNotFinish {
		t.Error("did_not_finish not persisted")
	}
	if !got.IsFavourite {
		t.Error("is_favourite not persisted")
	}
	if got.DateRead != nil {
		t.Errorf("expected nil date read, got %v", got.DateRead)
	}
}

func TestReviewsAllowRereads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "lexie")
	b := mustCreateBook(t, s, "gb-1")

	first := domain.Date{Year: 2020, Month: time.March, Day: 5}
	second := domain.Date{Year: 2024, Month: time.July, Day: 12}
	newTestReview(t, s, u, b, &first)
	newTestReview(t, s, u, b, &second)

	reviews, err := s.ListReviewsForBook(ctx, u.ID, b.ID)
	if err != nil {
		t.Fatalf("list reviews for book: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(reviews))
	}
	// Oldest read first.
	if *reviews[0].DateRead != first || *reviews[1].DateRead != second {
		t.Errorf("wrong order: %v then %v", reviews[0].DateRead, reviews[1].DateRead)
	}
}

func TestListReviewsOrdersUnknownDatesLast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "lexie")
	b1 := mustCreateBook(t, s, "gb-1")
	b2 := mustCreateBook(t, s, "gb-2")
	b3 := mustCreateBook(t, s, "gb-3")

	old := domain.Date{Year: 2019, Month: time.January, Day: 1}
	recent := domain.Date{Year: 2025, Month: time.May, Day: 20}
	newTestReview(t, s, u, b1, &old)
	newTestReview(t, s, u, b2, nil)
	newTestReview(t, s, u, b3, &recent)

	reviews, err := s.ListReviews(ctx, u.ID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want 3", len(reviews))
	}
	if reviews[0].BookID != b3.ID {
		t.Errorf("most recent read should sort first, got %s", reviews[0].BookID)
	}
	if reviews[2].DateRead != nil {
		t.Errorf("review without a read date should sort last")
	}
}

func TestUpdateReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "lexie")
	b := mustCreateBook(t, s, "gb-1")
	v := newTestReview(t, s, u, b, nil)

	v.ReviewText = "on reflection, a masterpiece"
	v.IsFavourite = true
	v.Touch()
	if err := s.UpdateReview(ctx, v); err != nil {
		t.Fatalf("update review: %v", err)
	}

	got, err := s.GetReview(ctx, v.ID)
	if err != nil {
		t.Fatalf("get review: %v", err)
	}
	if got.ReviewText != "on reflection, a masterpiece" || !got.IsFavourite {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestDeleteReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "lexie")
	b := mustCreateBook(t, s, "gb-1")
	v := newTestReview(t, s, u, b, nil)

	if err := s.DeleteReview(ctx, v.ID); err != nil {
		t.Fatalf("delete review: %v", err)
	}
	if _, err := s.GetReview(ctx, v.ID); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
