package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shelflog/shelflog-server/internal/http/response"
)

// handleGetCover serves a book's cover image, downloading and caching
// it from the upstream source on first access. Pass ?thumb=1 for the
// resized thumbnail.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUserID(r); !ok {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "book ID required", s.logger)
		return
	}

	thumb := r.URL.Query().Get("thumb") == "1" || r.URL.Query().Get("thumb") == "true"

	result, err := s.services.Cover.GetCover(r.Context(), bookID, thumb)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	etag := `"` + result.ETag + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("Cache-Control", CacheOneWeek)
	w.Header().Set("ETag", etag)
	w.Write(result.Data) //nolint:errcheck // Nothing to do about a failed image write
}
