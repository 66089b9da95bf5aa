package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelflog/shelflog-server/internal/config"
	"github.com/shelflog/shelflog-server/internal/logger"
	"github.com/shelflog/shelflog-server/internal/search"
	"github.com/shelflog/shelflog-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.SearchIndexPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	booksClient := do.MustInvoke[*GoogleBooksClientHandle](i)
	cacheHandle := do.MustInvoke[*MetadataCacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(
		booksClient.Client,
		cacheHandle.Cache,
		indexHandle.Index,
		storeHandle.Store,
		log.Logger,
	)

	// Wire to store for automatic indexing on writes
	storeHandle.SetSearchIndexer(indexHandle.Index)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds the log index when it is empty
// but the store already has books. Should be called after all services
// are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountBooks(ctx)
	if err != nil || count == 0 {
		return
	}

	log.Info("Search index is empty but books exist, triggering initial reindex",
		"book_count", count,
	)

	go func() {
		reindexCtx := context.Background()
		if err := searchService.ReindexLog(reindexCtx); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			docs, _ := searchService.DocumentCount()
			log.Info("Initial search reindex completed", "documents", docs)
		}
	}()
}
