package covers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a cover download.
	downloadTimeout = 30 * time.Second
)

// Result is the outcome of a cover fetch.
type Result struct {
	Data       []byte
	ETag       string // SHA256 of the stored cover, for cache validation
	BlurHash   string // Set only when the cover was downloaded this call
	Downloaded bool
}

// Proxy serves cover images from local storage, downloading and
// caching them from the upstream host on first access.
type Proxy struct {
	httpClient *http.Client
	storage    *Storage
	thumbWidth int
	logger     *slog.Logger
}

// NewProxy creates a cover proxy. thumbWidth is the maximum width of
// generated thumbnails.
func NewProxy(storage *Storage, thumbWidth int, logger *slog.Logger) *Proxy {
	return &Proxy{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		storage:    storage,
		thumbWidth: thumbWidth,
		logger:     logger,
	}
}

// Fetch returns the cover for a book, downloading it from imageURL on
// the first request. On first download it also computes a BlurHash so
// the caller can persist a placeholder on the book record.
func (p *Proxy) Fetch(ctx context.Context, bookID, imageURL string) (*Result, error) {
	if p.storage.Exists(bookID) {
		return p.fromStorage(bookID)
	}

	if imageURL == "" {
		return nil, domainerrors.NotFoundf("book %s has no cover image", bookID)
	}

	data, err := p.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	if err := p.storage.Save(bookID, data); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "store cover")
	}

	result := &Result{Data: data, Downloaded: true}

	result.ETag, err = p.storage.Hash(bookID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash cover")
	}

	// BlurHash is best effort: an undecodable image still gets served.
	blurHash, err := ComputeBlurHash(data)
	if err != nil {
		p.logger.Warn("failed to compute blurhash",
			"book_id", bookID,
			"url", imageURL,
			"error", err,
		)
	} else {
		result.BlurHash = blurHash
	}

	p.logger.Info("downloaded cover",
		"book_id", bookID,
		"size", len(data),
	)

	return result, nil
}

// FetchThumb returns a thumbnail for a book's cover, generating and
// caching it from the full cover on first access.
func (p *Proxy) FetchThumb(ctx context.Context, bookID, imageURL string) (*Result, error) {
	thumbID := bookID + ".thumb"
	if p.storage.Exists(thumbID) {
		return p.fromStorage(thumbID)
	}

	full, err := p.Fetch(ctx, bookID, imageURL)
	if err != nil {
		return nil, err
	}

	data, err := Thumbnail(full.Data, p.thumbWidth)
	if err != nil {
		// Serve the full cover rather than failing on odd formats.
		p.logger.Warn("failed to generate thumbnail",
			"book_id", bookID,
			"error", err,
		)
		return full, nil
	}

	if err := p.storage.Save(thumbID, data); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "store thumbnail")
	}

	result := &Result{Data: data, BlurHash: full.BlurHash, Downloaded: full.Downloaded}
	result.ETag, err = p.storage.Hash(thumbID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash thumbnail")
	}

	return result, nil
}

// Invalidate drops the cached cover and thumbnail for a book.
func (p *Proxy) Invalidate(bookID string) error {
	if err := p.storage.Delete(bookID); err != nil {
		return err
	}
	return p.storage.Delete(bookID + ".thumb")
}

func (p *Proxy) fromStorage(id string) (*Result, error) {
	data, err := p.storage.Get(id)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "read cover")
	}

	etag, err := p.storage.Hash(id)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash cover")
	}

	return &Result{Data: data, ETag: etag}, nil
}

func (p *Proxy) download(ctx context.Context, url string) ([]byte, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainerrors.ProxyFailed("invalid cover URL").WithCause(err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.ProxyFailed("cover download failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.ProxyFailed(
			fmt.Sprintf("cover host returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		return nil, domainerrors.ProxyFailed("reading cover data failed").WithCause(err)
	}
	if len(data) == 0 {
		return nil, domainerrors.ProxyFailed("cover host returned an empty body")
	}

	return data, nil
}
