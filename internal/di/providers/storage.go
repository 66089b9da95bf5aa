package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/shelflog/shelflog-server/internal/config"
	"github.com/shelflog/shelflog-server/internal/logger"
	"github.com/shelflog/shelflog-server/internal/media/covers"
)

// ProvideCoverStorage provides the on-disk cover image storage.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := covers.NewStorage(cfg.Covers.CachePath)
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}

	log.Info("Cover storage initialized", "path", cfg.Covers.CachePath)

	return storage, nil
}

// ProvideCoverProxy provides the cover fetch-and-cache proxy.
func ProvideCoverProxy(i do.Injector) (*covers.Proxy, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storage := do.MustInvoke[*covers.Storage](i)

	return covers.NewProxy(storage, cfg.Covers.ThumbWidth, log.Logger), nil
}
