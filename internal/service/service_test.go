package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
	"github.com/shelflog/shelflog-server/internal/store"
	"github.com/shelflog/shelflog-server/internal/store/sqlite"
)

// testKeyHex is a fixed 32-byte key for token tests.
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupStore creates a temporary SQLite store for service tests.
func setupStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

// assertDomainCode fails unless err is a domain error with the code.
func assertDomainCode(t *testing.T, err error, code domainerrors.Code) {
	t.Helper()

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}

func testBookInput(sourceID string) BookInput {
	return BookInput{
		Title:    "The Dispossessed",
		Author:   "Ursula K. Le Guin",
		Year:     "1974",
		SourceID: sourceID,
		ISBN13:   "9780061054884",
	}
}
