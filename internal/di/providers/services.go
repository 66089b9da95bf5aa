package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflog/shelflog-server/internal/auth"
	"github.com/shelflog/shelflog-server/internal/logger"
	"github.com/shelflog/shelflog-server/internal/media/covers"
	"github.com/shelflog/shelflog-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideLogService provides the reading log service.
func ProvideLogService(i do.Injector) (*service.LogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLogService(storeHandle.Store, log.Logger), nil
}

// ProvideExportService provides the CSV export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewExportService(storeHandle.Store, log.Logger), nil
}

// ProvideCoverService provides the cover image service.
func ProvideCoverService(i do.Injector) (*service.CoverService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	proxy := do.MustInvoke[*covers.Proxy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCoverService(storeHandle.Store, proxy, log.Logger), nil
}
