// Package store defines the persistence interface for the shelflog server.
package store

import (
	"context"
	"iter"

	"github.com/shelflog/shelflog-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	CreateOrGetBook(ctx context.Context, book *domain.Book) (*domain.Book, bool, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookBySourceID(ctx context.Context, sourceID string) (*domain.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	CountBooks(ctx context.Context) (int, error)

	// Plans
	CreatePlan(ctx context.Context, plan *domain.Plan) error
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	GetPlanForBook(ctx context.Context, userID, bookID string) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, plan *domain.Plan) error
	DeletePlan(ctx context.Context, id string) error
	ListPlans(ctx context.Context, userID string) ([]*domain.Plan, error)

	// Readings
	CreateReading(ctx context.Context, reading *domain.Reading) error
	GetReading(ctx context.Context, id string) (*domain.Reading, error)
	GetReadingForBook(ctx context.Context, userID, bookID string) (*domain.Reading, error)
	UpdateReading(ctx context.Context, reading *domain.Reading) error
	DeleteReading(ctx context.Context, id string) error
	ListReadings(ctx context.Context, userID string) ([]*domain.Reading, error)

	// Reviews
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id string) error
	ListReviews(ctx context.Context, userID string) ([]*domain.Review, error)
	ListReviewsForBook(ctx context.Context, userID, bookID string) ([]*domain.Review, error)

	// Transitions
	// Each transition removes the source record and inserts its
	// replacement in a single transaction, so a crash can never leave
	// a book in both states at once.
	MovePlanToReading(ctx context.Context, planID string, reading *domain.Reading) error
	MovePlanToReview(ctx context.Context, planID string, review *domain.Review) error
	MoveReadingToReview(ctx context.Context, readingID string, review *domain.Review) error

	// Export
	StreamPlans(ctx context.Context, userID string) iter.Seq2[*domain.Plan, error]
	StreamReadings(ctx context.Context, userID string) iter.Seq2[*domain.Reading, error]
	StreamReviews(ctx context.Context, userID string) iter.Seq2[*domain.Review, error]
}

// SearchIndexer is the interface for updating the search index.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	IndexReview(ctx context.Context, review *domain.Review, book *domain.Book) error
	DeleteReview(ctx context.Context, reviewID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error                  { return nil }
func (NoopSearchIndexer) DeleteBook(context.Context, string) error                       { return nil }
func (NoopSearchIndexer) IndexReview(context.Context, *domain.Review, *domain.Book) error { return nil }
func (NoopSearchIndexer) DeleteReview(context.Context, string) error                     { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }
