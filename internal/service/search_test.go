package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/domain"
	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
	"github.com/shelflog/shelflog-server/internal/metadata/cache"
	"github.com/shelflog/shelflog-server/internal/metadata/googlebooks"
	"github.com/shelflog/shelflog-server/internal/search"
)

func TestSearchService_SearchMetadata_CachesResponses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"items":[{"id":"vol-1","volumeInfo":{"title":"Dune","authors":["Frank Herbert"]}}]}`))
	}))
	defer server.Close()

	books := googlebooks.New(googlebooks.Config{BaseURL: server.URL}, testLogger())
	responseCache, err := cache.Open(t.TempDir(), time.Hour, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = responseCache.Close() })

	svc := NewSearchService(books, responseCache, nil, nil, testLogger())
	ctx := context.Background()

	first, err := svc.SearchMetadata(ctx, "dune")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Dune", first[0].Title)

	// Second search is a cache hit, the upstream is not contacted.
	second, err := svc.SearchMetadata(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSearchService_SearchMetadata_EmptyQuery(t *testing.T) {
	svc := NewSearchService(nil, nil, nil, nil, testLogger())

	_, err := svc.SearchMetadata(context.Background(), "   ")
	assertDomainCode(t, err, domainerrors.CodeValidation)
}

func TestSearchService_SearchMetadata_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	books := googlebooks.New(googlebooks.Config{BaseURL: server.URL}, testLogger())
	svc := NewSearchService(books, nil, nil, nil, testLogger())

	_, err := svc.SearchMetadata(context.Background(), "dune")
	assertDomainCode(t, err, domainerrors.CodeLookupFailed)
}

func TestSearchService_SearchLog(t *testing.T) {
	s := setupStore(t)
	index, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	s.SetSearchIndexer(index)

	logSvc := NewLogService(s, testLogger())
	svc := NewSearchService(nil, nil, index, s, testLogger())
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	user.ID = "user_alice"
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(ctx, user))

	review, err := logSvc.CreateReview(ctx, user.ID, CreateReviewRequest{
		Book:       testBookInput("vol-1"),
		ReviewText: "anarchist moon colony physics",
	})
	require.NoError(t, err)

	t.Run("matches review text", func(t *testing.T) {
		books, err := svc.SearchLog(ctx, user.ID, "anarchist")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, review.BookID, books[0].ID)
	})

	t.Run("matches book title", func(t *testing.T) {
		books, err := svc.SearchLog(ctx, user.ID, "dispossessed")
		require.NoError(t, err)
		require.Len(t, books, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		books, err := svc.SearchLog(ctx, user.ID, "submarine")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := svc.SearchLog(ctx, user.ID, "")
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})
}

func TestSearchService_ReindexLog(t *testing.T) {
	s := setupStore(t)
	index, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	// No live indexer wired: writes do not reach the index.

	logSvc := NewLogService(s, testLogger())
	svc := NewSearchService(nil, nil, index, s, testLogger())
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	user.ID = "user_alice"
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(ctx, user))

	_, err = logSvc.CreateReview(ctx, user.ID, CreateReviewRequest{
		Book:       testBookInput("vol-1"),
		ReviewText: "rebuilt from the store",
	})
	require.NoError(t, err)

	books, err := svc.SearchLog(ctx, user.ID, "rebuilt")
	require.NoError(t, err)
	assert.Empty(t, books, "nothing indexed yet")

	require.NoError(t, svc.ReindexLog(ctx))

	books, err = svc.SearchLog(ctx, user.ID, "rebuilt")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}
