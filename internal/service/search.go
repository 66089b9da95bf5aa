package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelflog/shelflog-server/internal/domain"
	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
	"github.com/shelflog/shelflog-server/internal/metadata/cache"
	"github.com/shelflog/shelflog-server/internal/metadata/googlebooks"
	"github.com/shelflog/shelflog-server/internal/search"
	"github.com/shelflog/shelflog-server/internal/store"
)

// SearchService answers both kinds of search: metadata lookups
// against Google Books when adding a book, and full-text search over
// the user's own log.
type SearchService struct {
	books  *googlebooks.Client
	cache  *cache.Cache
	index  *search.Index
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service. The cache may be nil
// to disable metadata response caching.
func NewSearchService(
	books *googlebooks.Client,
	cache *cache.Cache,
	index *search.Index,
	store store.Store,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		books:  books,
		cache:  cache,
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchMetadata looks up books matching the query on Google Books.
// Repeated queries are served from the response cache.
func (s *SearchService) SearchMetadata(ctx context.Context, query string) ([]googlebooks.Volume, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("query must not be empty")
	}

	if s.cache != nil {
		if volumes, ok := s.cache.GetSearch(query); ok {
			s.logger.Debug("metadata search served from cache", "query", query)
			return volumes, nil
		}
	}

	volumes, err := s.books.Search(ctx, query)
	if err != nil {
		return nil, domainerrors.LookupFailed("book lookup failed").WithCause(err)
	}

	if s.cache != nil {
		s.cache.SetSearch(query, volumes)
	}

	return volumes, nil
}

// SearchLog finds books in the user's log whose title, author, or
// review text matches the terms.
func (s *SearchService) SearchLog(ctx context.Context, userID, terms string) ([]*domain.Book, error) {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return nil, domainerrors.Validation("query must not be empty")
	}

	bookIDs, err := s.index.Query(ctx, userID, terms)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	books := make([]*domain.Book, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		book, err := s.store.GetBook(ctx, bookID)
		if err != nil {
			// The index can lag behind the store; skip stale hits.
			s.logger.Warn("indexed book missing from store",
				"book_id", bookID,
				"error", err,
			)
			continue
		}
		books = append(books, book)
	}

	return books, nil
}

// ReindexLog rebuilds the search index from the store. Used after
// index corruption or a mapping change.
func (s *SearchService) ReindexLog(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	docs := make([]*search.Document, 0, len(books))
	for _, book := range books {
		docs = append(docs, search.BookDocument(book))
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, user := range users {
		reviews, err := s.store.ListReviews(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list reviews for %s: %w", user.ID, err)
		}
		for _, review := range reviews {
			if review.Book == nil {
				continue
			}
			docs = append(docs, search.ReviewDocument(review, review.Book))
		}
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("reindexed log", "documents", len(docs))
	return nil
}

// DocumentCount reports how many documents the search index holds.
func (s *SearchService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocumentCount()
}
