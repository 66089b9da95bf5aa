package service

import (
	"context"
	"log/slog"

	"github.com/shelflog/shelflog-server/internal/media/covers"
	"github.com/shelflog/shelflog-server/internal/store"
)

// CoverService serves cover images through the local cover cache.
type CoverService struct {
	store  store.Store
	proxy  *covers.Proxy
	logger *slog.Logger
}

// NewCoverService creates a new cover service.
func NewCoverService(store store.Store, proxy *covers.Proxy, logger *slog.Logger) *CoverService {
	return &CoverService{
		store:  store,
		proxy:  proxy,
		logger: logger,
	}
}

// GetCover returns a book's cover image, downloading and caching it
// on first access. With thumb set, a resized thumbnail is returned
// instead of the full image.
func (s *CoverService) GetCover(ctx context.Context, bookID string, thumb bool) (*covers.Result, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var result *covers.Result
	if thumb {
		result, err = s.proxy.FetchThumb(ctx, book.ID, book.ImageURL)
	} else {
		result, err = s.proxy.Fetch(ctx, book.ID, book.ImageURL)
	}
	if err != nil {
		return nil, err
	}

	// Persist the placeholder hash the first time the cover lands on
	// disk. Failing to save it just means another attempt next time.
	if result.BlurHash != "" && book.BlurHash != result.BlurHash {
		book.BlurHash = result.BlurHash
		book.Touch()
		if err := s.store.UpdateBook(ctx, book); err != nil {
			s.logger.Warn("failed to save blurhash",
				"book_id", book.ID,
				"error", err,
			)
		}
	}

	return result, nil
}
