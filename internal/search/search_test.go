package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testBook(id, title, author, year string) *domain.Book {
	book := &domain.Book{
		Title:    title,
		Author:   author,
		Year:     year,
		SourceID: "src-" + id,
	}
	book.ID = id
	book.CreatedAt = time.Now().UTC()
	book.UpdatedAt = book.CreatedAt
	return book
}

func testReview(id, userID string, book *domain.Book, text string) *domain.Review {
	review := &domain.Review{
		BookID:     book.ID,
		UserID:     userID,
		ReviewText: text,
	}
	review.ID = id
	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt
	return review
}

func TestNewIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndex_IndexBook(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, testBook("book-1", "The Hobbit", "J.R.R. Tolkien", "1937")))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIndex_DeleteBook(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, testBook("book-1", "The Hobbit", "J.R.R. Tolkien", "1937")))
	require.NoError(t, index.DeleteBook(ctx, "book-1"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, testBook("book-1", "The Hobbit", "J.R.R. Tolkien", "1937")))
	require.NoError(t, index.IndexBook(ctx, testBook("book-2", "The Silmarillion", "J.R.R. Tolkien", "1977")))
	require.NoError(t, index.IndexBook(ctx, testBook("book-3", "Dune", "Frank Herbert", "1965")))

	t.Run("finds by title", func(t *testing.T) {
		result, err := index.Search(ctx, Params{Query: "hobbit", Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, "book-1", result.Hits[0].ID)
		assert.Equal(t, DocTypeBook, result.Hits[0].Type)
		assert.Equal(t, "The Hobbit", result.Hits[0].Name)
		assert.Equal(t, 1937, result.Hits[0].Year)
	})

	t.Run("finds by author", func(t *testing.T) {
		result, err := index.Search(ctx, Params{Query: "tolkien", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Hits, 2)
	})

	t.Run("no matches", func(t *testing.T) {
		result, err := index.Search(ctx, Params{Query: "xylophone", Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, result.Hits)
	})
}

func TestIndex_SearchReviews(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	book := testBook("book-1", "Dune", "Frank Herbert", "1965")
	require.NoError(t, index.IndexBook(ctx, book))
	require.NoError(t, index.IndexReview(ctx,
		testReview("review-1", "user-a", book, "The spice melange drives everything."), book))
	require.NoError(t, index.IndexReview(ctx,
		testReview("review-2", "user-b", book, "Sandworms are terrifying."), book))

	t.Run("review text is searchable", func(t *testing.T) {
		result, err := index.Search(ctx, Params{Query: "melange", UserID: "user-a", Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, "review-1", result.Hits[0].ID)
		assert.Equal(t, "book-1", result.Hits[0].BookID)
	})

	t.Run("other users reviews are not visible", func(t *testing.T) {
		result, err := index.Search(ctx, Params{Query: "sandworms", UserID: "user-a", Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, result.Hits)
	})

	t.Run("book documents stay visible to everyone", func(t *testing.T) {
		result, err := index.Search(ctx, Params{Query: "dune", UserID: "user-a", Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, result.Hits)
		assert.Equal(t, "book-1", result.Hits[0].BookID)
	})
}

func TestIndex_Query(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	book := testBook("book-1", "Dune", "Frank Herbert", "1965")
	require.NoError(t, index.IndexBook(ctx, book))
	require.NoError(t, index.IndexReview(ctx,
		testReview("review-1", "user-a", book, "Dune is a desert planet."), book))

	// Book doc and review doc both match, but the book ID appears once.
	bookIDs, err := index.Query(ctx, "user-a", "dune")
	require.NoError(t, err)
	assert.Equal(t, []string{"book-1"}, bookIDs)
}

func TestIndex_DeleteReview(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	book := testBook("book-1", "Dune", "Frank Herbert", "1965")
	review := testReview("review-1", "user-a", book, "Unforgettable.")
	require.NoError(t, index.IndexReview(ctx, review, book))
	require.NoError(t, index.DeleteReview(ctx, "review-1"))

	result, err := index.Search(ctx, Params{Query: "unforgettable", UserID: "user-a", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestIndex_IndexDocuments_Batch(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*Document{
		{ID: "book-1", Type: DocTypeBook, Name: "Book One"},
		{ID: "book-2", Type: DocTypeBook, Name: "Book Two"},
		{ID: "book-3", Type: DocTypeBook, Name: "Book Three"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(ctx, testBook("book-1", "The Hobbit", "J.R.R. Tolkien", "1937")))
	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	// Index remains usable after rebuild.
	require.NoError(t, index.IndexBook(ctx, testBook("book-2", "Dune", "Frank Herbert", "1965")))
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "just words", "just words"},
		{"simple tags", "<p>great <b>book</b></p>", "great book"},
		{"collapses whitespace", "too   many\n\nspaces", "too many spaces"},
		{"comparison operator is kept", "rating < expectations", "rating < expectations"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.input))
		})
	}
}
