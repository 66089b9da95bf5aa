package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/metadata/googlebooks"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/books",
		Summary:     "Search book metadata",
		Description: "Looks up books on Google Books. Results are cached server-side.",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchLog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/log",
		Summary:     "Search your log",
		Description: "Full-text search over your tracked books and review text.",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchLog)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexLog",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild the search index",
		Description: "Drops and rebuilds the full-text index from the database.",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindexLog)
}

// === DTOs ===

// SearchInput carries the search query string.
type SearchInput struct {
	Query string `query:"q" doc:"Search terms"`
}

// MetadataSearchResponse contains book metadata search results.
type MetadataSearchResponse struct {
	Query   string               `json:"query" doc:"The search terms as executed"`
	Results []googlebooks.Volume `json:"results" doc:"Matching volumes"`
	Total   int                  `json:"total" doc:"Number of results"`
}

// MetadataSearchOutput wraps metadata search results for Huma.
type MetadataSearchOutput struct {
	Body MetadataSearchResponse
}

// LogSearchResponse contains log search results.
type LogSearchResponse struct {
	Query   string         `json:"query" doc:"The search terms as executed"`
	Results []*domain.Book `json:"results" doc:"Matching books, most relevant first"`
	Total   int            `json:"total" doc:"Number of results"`
}

// LogSearchOutput wraps log search results for Huma.
type LogSearchOutput struct {
	Body LogSearchResponse
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchInput) (*MetadataSearchOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	volumes, err := s.services.Search.SearchMetadata(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	return &MetadataSearchOutput{Body: MetadataSearchResponse{
		Query:   input.Query,
		Results: volumes,
		Total:   len(volumes),
	}}, nil
}

func (s *Server) handleSearchLog(ctx context.Context, input *SearchInput) (*LogSearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Search.SearchLog(ctx, userID, input.Query)
	if err != nil {
		return nil, err
	}

	return &LogSearchOutput{Body: LogSearchResponse{
		Query:   input.Query,
		Results: books,
		Total:   len(books),
	}}, nil
}

func (s *Server) handleReindexLog(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Search.ReindexLog(ctx); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Reindex complete"}}, nil
}
