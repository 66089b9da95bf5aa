package covers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
)

// testPNG encodes a small gradient image so decode, blurhash, and
// thumbnail paths all have real pixels to work with.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 7), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func setupTestProxy(t *testing.T) *Proxy {
	t.Helper()
	storage := setupTestStorage(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProxy(storage, 32, logger)
}

func TestProxy_Fetch(t *testing.T) {
	t.Run("downloads and caches on first access", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write(testPNG(t, 48, 64))
		}))
		defer server.Close()

		proxy := setupTestProxy(t)

		result, err := proxy.Fetch(context.Background(), "book-1", server.URL)
		require.NoError(t, err)
		assert.True(t, result.Downloaded)
		assert.NotEmpty(t, result.Data)
		assert.NotEmpty(t, result.ETag)
		assert.NotEmpty(t, result.BlurHash)

		// Second fetch comes from storage, upstream is not contacted.
		cached, err := proxy.Fetch(context.Background(), "book-1", server.URL)
		require.NoError(t, err)
		assert.False(t, cached.Downloaded)
		assert.Equal(t, result.Data, cached.Data)
		assert.Equal(t, result.ETag, cached.ETag)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("upstream failure maps to proxy error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		proxy := setupTestProxy(t)

		_, err := proxy.Fetch(context.Background(), "book-1", server.URL)
		require.Error(t, err)

		var domainErr *domainerrors.Error
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domainerrors.CodeProxyFailed, domainErr.Code)
	})

	t.Run("book without cover URL is not found", func(t *testing.T) {
		proxy := setupTestProxy(t)

		_, err := proxy.Fetch(context.Background(), "book-1", "")
		require.Error(t, err)

		var domainErr *domainerrors.Error
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
	})
}

func TestProxy_FetchThumb(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testPNG(t, 200, 300))
	}))
	defer server.Close()

	proxy := setupTestProxy(t)

	result, err := proxy.FetchThumb(context.Background(), "book-1", server.URL)
	require.NoError(t, err)
	require.NotEmpty(t, result.Data)

	img, format, err := image.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, img.Bounds().Dx(), 32)

	// Thumbnail is cached separately from the full cover.
	assert.True(t, proxy.storage.Exists("book-1"))
	assert.True(t, proxy.storage.Exists("book-1.thumb"))
}

func TestProxy_Invalidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testPNG(t, 48, 64))
	}))
	defer server.Close()

	proxy := setupTestProxy(t)

	_, err := proxy.FetchThumb(context.Background(), "book-1", server.URL)
	require.NoError(t, err)

	require.NoError(t, proxy.Invalidate("book-1"))
	assert.False(t, proxy.storage.Exists("book-1"))
	assert.False(t, proxy.storage.Exists("book-1.thumb"))
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testPNG(t, 100, 150))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	_, err = ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	t.Run("scales wide images down", func(t *testing.T) {
		data, err := Thumbnail(testPNG(t, 200, 100), 50)
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 50, img.Bounds().Dx())
		assert.Equal(t, 25, img.Bounds().Dy())
	})

	t.Run("re-encodes small images without scaling", func(t *testing.T) {
		data, err := Thumbnail(testPNG(t, 20, 30), 50)
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 20, img.Bounds().Dx())
	})
}
