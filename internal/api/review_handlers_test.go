package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/domain"
)

func createTestReview(t *testing.T, server *Server, token, sourceID, text string) *domain.Review {
	t.Helper()

	w := doRequest(t, server, http.MethodPost, "/api/v1/reviews", token, map[string]any{
		"book":        testBookBody(sourceID),
		"review_text": text,
		"date_read":   "2026-07-04",
	})
	require.Equal(t, http.StatusOK, w.Code, "create review failed: %s", w.Body.String())

	var review domain.Review
	decodeBody(t, w, &review)
	require.NotEmpty(t, review.ID)
	return &review
}

func TestCreateReview(t *testing.T) {
	server := setupTestServer(t)
	token := registerTestUser(t, server, "alice")

	review := createTestReview(t, server, token, "gb-earthsea", "Loved every page.")

	assert.True(t, strings.HasPrefix(review.ID, "review-"))
	assert.Equal(t, "Loved every page.", review.ReviewText)
	require.NotNil(t, review.DateRead)
	assert.Equal(t, "2026-07-04", review.DateRead.String())
	assert.False(t, review.DidNotFinish)
}

func TestCreateReview_RereadsStack(t *testing.T) {
	server := setupTestServer(t)
	token := registerTestUser(t, server, "alice")

	createTestReview(t, server, token, "gb-earthsea", "First read.")
	createTestReview(t, server, token, "gb-earthsea", "Even better the second time.")

	w := doRequest(t, server, http.MethodGet, "/api/v1/reviews", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReviewsResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Total)
}

func TestCreateReview_UnknownDate(t *testing.T) {
	server := setupTestServer(t)
	token := registerTestUser(t, server, "alice")

	w := doRequest(t, server, http.MethodPost, "/api/v1/reviews", token, map[string]any{
		"book":        testBookBody("gb-earthsea"),
		"review_text": "Read this years ago.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var review domain.Review
	decodeBody(t, w, &review)
	// A direct log keeps the read date unknown rather than guessing.
	assert.Nil(t, review.DateRead)
}

func TestUpdateReview(t *testing.T) {
	server := setupTestServer(t)
	token := registerTestUser(t, server, "alice")

	review := createTestReview(t, server, token, "gb-earthsea", "Initial thoughts.")

	w := doRequest(t, server, http.MethodPatch, "/api/v1/reviews/"+review.ID, token, map[string]any{
		"is_favourite": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated domain.Review
	decodeBody(t, w, &updated)
	assert.True(t, updated.IsFavourite)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Initial thoughts.", updated.ReviewText)
}

func TestDeleteReview(t *testing.T) {
	server := setupTestServer(t)
	token := registerTestUser(t, server, "alice")

	review := createTestReview(t, server, token, "gb-earthsea", "Short-lived opinion.")

	w := doRequest(t, server, http.MethodDelete, "/api/v1/reviews/"+review.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/v1/reviews/"+review.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewsScopedToUser(t *testing.T) {
	server := setupTestServer(t)
	alice := registerTestUser(t, server, "alice")
	bob := registerTestUser(t, server, "bob")

	review := createTestReview(t, server, alice, "gb-earthsea", "Alice's private notes.")

	w := doRequest(t, server, http.MethodGet, "/api/v1/reviews/"+review.ID, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/v1/reviews", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReviewsResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 0, resp.Total)
}
