// Package di provides dependency injection configuration for the shelflog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelflog/shelflog-server/internal/auth"
	"github.com/shelflog/shelflog-server/internal/config"
	"github.com/shelflog/shelflog-server/internal/di/providers"
	"github.com/shelflog/shelflog-server/internal/logger"
	"github.com/shelflog/shelflog-server/internal/media/covers"
	"github.com/shelflog/shelflog-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverProxy)

	// Metadata layer
	do.Provide(injector, providers.ProvideMetadataCache)
	do.Provide(injector, providers.ProvideGoogleBooksClient)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideLogService)
	do.Provide(injector, providers.ProvideExportService)
	do.Provide(injector, providers.ProvideCoverService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*covers.Proxy](injector)
	_ = do.MustInvoke[*providers.MetadataCacheHandle](injector)
	_ = do.MustInvoke[*providers.GoogleBooksClientHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.LogService](injector)
	_ = do.MustInvoke[*service.ExportService](injector)
	_ = do.MustInvoke[*service.CoverService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	// Rebuild the log index if it is empty but the store has books
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
