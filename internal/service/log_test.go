package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/auth"
	"github.com/shelflog/shelflog-server/internal/domain"
	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
	"github.com/shelflog/shelflog-server/internal/store"
)

// setupLogTest returns a log service plus two registered users.
func setupLogTest(t *testing.T) (*LogService, *domain.User, *domain.User) {
	t.Helper()

	s := setupStore(t)
	svc := NewLogService(s, testLogger())

	makeUser := func(username string) *domain.User {
		hash, err := auth.HashPassword("test password")
		require.NoError(t, err)
		user := &domain.User{Username: username, PasswordHash: hash}
		user.ID = "user_" + username
		user.InitTimestamps()
		require.NoError(t, s.CreateUser(context.Background(), user))
		return user
	}

	return svc, makeUser("alice"), makeUser("bob")
}

func TestLogService_CreatePlan(t *testing.T) {
	svc, alice, bob := setupLogTest(t)
	ctx := context.Background()

	t.Run("creates plan and book", func(t *testing.T) {
		plan, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{
			Book: testBookInput("vol-1"),
			Note: "recommended by sam",
		})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, plan.UserID)
		assert.Equal(t, "recommended by sam", plan.Note)
		assert.Equal(t, domain.Today(), plan.DateAdded)
		require.NotNil(t, plan.Book)
		assert.Equal(t, "The Dispossessed", plan.Book.Title)
	})

	t.Run("same book twice conflicts, naming the book", func(t *testing.T) {
		_, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
		assertDomainCode(t, err, domainerrors.CodeAlreadyExists)
		assert.Contains(t, err.Error(), "The Dispossessed")
	})

	t.Run("other users are unaffected", func(t *testing.T) {
		_, err := svc.CreatePlan(ctx, bob.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
		require.NoError(t, err)
	})

	t.Run("existing book metadata wins", func(t *testing.T) {
		input := testBookInput("vol-1")
		input.Title = "Corrupted Title"
		reading, err := svc.CreateReading(ctx, alice.ID, CreateReadingRequest{Book: input})
		require.NoError(t, err)
		assert.Equal(t, "The Dispossessed", reading.Book.Title)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		input := testBookInput("vol-2")
		input.Title = ""
		_, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: input})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})
}

func TestLogService_Ownership(t *testing.T) {
	svc, alice, bob := setupLogTest(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	t.Run("reading another user's entry", func(t *testing.T) {
		_, err := svc.GetPlan(ctx, bob.ID, plan.ID)
		assertDomainCode(t, err, domainerrors.CodeUnauthorized)
	})

	t.Run("mutating another user's entry", func(t *testing.T) {
		err := svc.DeletePlan(ctx, bob.ID, plan.ID)
		assertDomainCode(t, err, domainerrors.CodeUnauthorized)

		_, err = svc.MarkPlanAsReading(ctx, bob.ID, plan.ID, StartReadingRequest{})
		assertDomainCode(t, err, domainerrors.CodeUnauthorized)
	})

	t.Run("owner still has access", func(t *testing.T) {
		got, err := svc.GetPlan(ctx, alice.ID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, plan.ID, got.ID)
	})
}

func TestLogService_MarkPlanAsReading(t *testing.T) {
	svc, alice, _ := setupLogTest(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{
		Book: testBookInput("vol-1"),
		Note: "from the plan",
	})
	require.NoError(t, err)

	reading, err := svc.MarkPlanAsReading(ctx, alice.ID, plan.ID, StartReadingRequest{})
	require.NoError(t, err)
	assert.Equal(t, plan.BookID, reading.BookID)
	assert.Equal(t, "from the plan", reading.Note, "note carries over by default")
	require.NotNil(t, reading.DateStarted)
	assert.Equal(t, domain.Today(), *reading.DateStarted)

	// The plan entry is consumed by the move.
	_, err = svc.GetPlan(ctx, alice.ID, plan.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The slot is free again, so the book can be re-planned.
	_, err = svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)
}

func TestLogService_MarkPlanAsReading_Conflict(t *testing.T) {
	svc, alice, _ := setupLogTest(t)
	ctx := context.Background()

	_, err := svc.CreateReading(ctx, alice.ID, CreateReadingRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	plan, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	// Already reading this book, so the move must fail whole.
	_, err = svc.MarkPlanAsReading(ctx, alice.ID, plan.ID, StartReadingRequest{})
	assertDomainCode(t, err, domainerrors.CodeAlreadyExists)

	// The failed move left the plan in place.
	_, err = svc.GetPlan(ctx, alice.ID, plan.ID)
	require.NoError(t, err)
}

func TestLogService_MarkPlanAsReviewed(t *testing.T) {
	svc, alice, _ := setupLogTest(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	review, err := svc.MarkPlanAsReviewed(ctx, alice.ID, plan.ID, FinishBookRequest{
		ReviewText:  "skipped straight to the end",
		IsFavourite: true,
	})
	require.NoError(t, err)
	assert.Equal(t, plan.BookID, review.BookID)
	assert.True(t, review.IsFavourite)
	require.NotNil(t, review.DateRead)
	assert.Equal(t, domain.Today(), *review.DateRead)

	_, err = svc.GetPlan(ctx, alice.ID, plan.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogService_MarkReadingAsReviewed(t *testing.T) {
	svc, alice, _ := setupLogTest(t)
	ctx := context.Background()

	reading, err := svc.CreateReading(ctx, alice.ID, CreateReadingRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	dnfDate, err := domain.ParseDate("2026-03-01")
	require.NoError(t, err)

	review, err := svc.MarkReadingAsReviewed(ctx, alice.ID, reading.ID, FinishBookRequest{
		ReviewText:   "could not get into it",
		DateRead:     &dnfDate,
		DidNotFinish: true,
	})
	require.NoError(t, err)
	assert.True(t, review.DidNotFinish)
	assert.Equal(t, "2026-03-01", review.DateRead.String())

	_, err = svc.GetReading(ctx, alice.ID, reading.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogService_Reviews(t *testing.T) {
	svc, alice, _ := setupLogTest(t)
	ctx := context.Background()

	t.Run("re-reads stack", func(t *testing.T) {
		for range 2 {
			_, err := svc.CreateReview(ctx, alice.ID, CreateReviewRequest{
				Book:       testBookInput("vol-1"),
				ReviewText: "read it again",
			})
			require.NoError(t, err)
		}

		reviews, err := svc.ListReviews(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})

	t.Run("unknown read date stays unknown", func(t *testing.T) {
		review, err := svc.CreateReview(ctx, alice.ID, CreateReviewRequest{
			Book: testBookInput("vol-2"),
		})
		require.NoError(t, err)
		assert.Nil(t, review.DateRead)
	})

	t.Run("partial update", func(t *testing.T) {
		review, err := svc.CreateReview(ctx, alice.ID, CreateReviewRequest{
			Book:       testBookInput("vol-3"),
			ReviewText: "first impression",
		})
		require.NoError(t, err)

		fav := true
		updated, err := svc.UpdateReview(ctx, alice.ID, review.ID, UpdateReviewRequest{
			IsFavourite: &fav,
		})
		require.NoError(t, err)
		assert.True(t, updated.IsFavourite)
		assert.Equal(t, "first impression", updated.ReviewText, "unset fields are untouched")
	})
}

func TestLogService_UpdatePlan(t *testing.T) {
	svc, alice, _ := setupLogTest(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, alice.ID, CreatePlanRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	note := "changed my mind about when"
	newDate, err := domain.ParseDate("2026-01-15")
	require.NoError(t, err)

	updated, err := svc.UpdatePlan(ctx, alice.ID, plan.ID, UpdatePlanRequest{
		Note:      &note,
		DateAdded: &newDate,
	})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)
	assert.Equal(t, "2026-01-15", updated.DateAdded.String())
}
