package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflog/shelflog-server/internal/config"
	"github.com/shelflog/shelflog-server/internal/logger"
	"github.com/shelflog/shelflog-server/internal/metadata/cache"
	"github.com/shelflog/shelflog-server/internal/metadata/googlebooks"
	"github.com/shelflog/shelflog-server/internal/metadata/openlibrary"
)

// MetadataCacheHandle wraps the metadata response cache with shutdown capability.
type MetadataCacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *MetadataCacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideMetadataCache provides the on-disk metadata response cache.
func ProvideMetadataCache(i do.Injector) (*MetadataCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cfg.MetadataCachePath(), cfg.Metadata.CacheTTL, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Metadata cache initialized",
		"path", cfg.MetadataCachePath(),
		"ttl", cfg.Metadata.CacheTTL,
	)

	return &MetadataCacheHandle{Cache: c}, nil
}

// GoogleBooksClientHandle wraps the Google Books client.
type GoogleBooksClientHandle struct {
	*googlebooks.Client
}

// ProvideGoogleBooksClient provides the Google Books API client with an
// Open Library cover fallback.
func ProvideGoogleBooksClient(i do.Injector) (*GoogleBooksClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := googlebooks.New(googlebooks.Config{
		BaseURL:     cfg.Metadata.GoogleBooksURL,
		MaxResults:  cfg.Metadata.MaxResults,
		Concurrency: cfg.Metadata.LookupConcurrency,
		Covers:      openlibrary.New("", log.Logger),
	}, log.Logger)

	log.Info("Google Books client initialized",
		"max_results", cfg.Metadata.MaxResults,
		"concurrency", cfg.Metadata.LookupConcurrency,
	)

	return &GoogleBooksClientHandle{Client: client}, nil
}
