package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/auth"
	"github.com/shelflog/shelflog-server/internal/media/covers"
	"github.com/shelflog/shelflog-server/internal/metadata/googlebooks"
	"github.com/shelflog/shelflog-server/internal/search"
	"github.com/shelflog/shelflog-server/internal/service"
	"github.com/shelflog/shelflog-server/internal/store/sqlite"
)

// testKeyHex is a fixed 32-byte PASETO key for tests.
const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// setupTestServer creates a test server with all dependencies backed
// by temp directories.
func setupTestServer(t *testing.T) *Server {
	return setupTestServerWithMetadata(t, "")
}

// setupTestServerWithMetadata lets a test point the metadata client at
// a local stub instead of the real Google Books API.
func setupTestServerWithMetadata(t *testing.T, metadataURL string) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	coverStorage, err := covers.NewStorage(filepath.Join(tmpDir, "covers"))
	require.NoError(t, err)
	coverProxy := covers.NewProxy(coverStorage, 320, logger)

	books := googlebooks.New(googlebooks.Config{BaseURL: metadataURL}, logger)

	services := &Services{
		Auth:   service.NewAuthService(st, tokenService, logger),
		Log:    service.NewLogService(st, logger),
		Search: service.NewSearchService(books, nil, index, st, logger),
		Export: service.NewExportService(st, logger),
		Cover:  service.NewCoverService(st, coverProxy, logger),
	}

	return NewServer(st, services, logger)
}

// doRequest performs a request against the server and records the response.
func doRequest(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response body into out, ignoring huma's
// $schema links.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerTestUser creates an account through the API and returns its
// access token.
func registerTestUser(t *testing.T, server *Server, username string) string {
	t.Helper()

	w := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code, "register failed: %s", w.Body.String())

	var resp AuthResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// testBookBody is a book payload used across handler tests.
func testBookBody(sourceID string) map[string]any {
	return map[string]any{
		"title":     "A Wizard of Earthsea",
		"author":    "Ursula K. Le Guin",
		"year":      "1968",
		"source_id": sourceID,
	}
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	decodeBody(t, w, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}
