package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/shelflog/shelflog-server/internal/http/response"
	"github.com/shelflog/shelflog-server/internal/service"
)

// currentUserID returns the authenticated user ID for raw chi handlers.
func (s *Server) currentUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

func (s *Server) handleExportPlans(w http.ResponseWriter, r *http.Request) {
	s.streamExport(w, r, "plans", s.services.Export.PlansCSV)
}

func (s *Server) handleExportReadings(w http.ResponseWriter, r *http.Request) {
	s.streamExport(w, r, "readings", s.services.Export.ReadingsCSV)
}

func (s *Server) handleExportReviews(w http.ResponseWriter, r *http.Request) {
	s.streamExport(w, r, "reviews", s.services.Export.ReviewsCSV)
}

// streamExport writes a CSV export straight to the response body.
// The headers are committed before the first row, so a failure mid-stream
// can only truncate the file, not change the status code.
func (s *Server) streamExport(w http.ResponseWriter, r *http.Request, kind string, export func(ctx context.Context, userID string, w io.Writer) error) {
	userID, ok := s.currentUserID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.Filename(kind)))
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(http.StatusOK)

	if err := export(r.Context(), userID, w); err != nil {
		s.logger.Error("export failed mid-stream",
			"kind", kind,
			"user_id", userID,
			"error", err,
		)
	}
}
