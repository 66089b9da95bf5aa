package api

import (
	"github.com/shelflog/shelflog-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth   *service.AuthService
	Log    *service.LogService
	Search *service.SearchService
	Export *service.ExportService
	Cover  *service.CoverService
}
