package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/service"
)

func (s *Server) registerReadingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/readings",
		Summary:     "Start reading a book",
		Description: "Marks a book as currently being read, without it having been planned first.",
		Tags:        []string{"Readings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReadings",
		Method:      http.MethodGet,
		Path:        "/api/v1/readings",
		Summary:     "List books being read",
		Tags:        []string{"Readings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReadings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReading",
		Method:      http.MethodGet,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Get a reading entry",
		Tags:        []string{"Readings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReading",
		Method:      http.MethodPatch,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Update a reading entry",
		Description: "Updates the note or start date of a reading entry. Omitted fields are unchanged.",
		Tags:        []string{"Readings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReading",
		Method:      http.MethodDelete,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Delete a reading entry",
		Tags:        []string{"Readings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "reviewReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/readings/{id}/review",
		Summary:     "Finish a book being read",
		Description: "Marks an in-progress book as read, recording a review. The reading entry is consumed.",
		Tags:        []string{"Readings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReviewReading)
}

// === DTOs ===

// CreateReadingInput wraps the create reading request for Huma.
type CreateReadingInput struct {
	Body service.CreateReadingRequest
}

// ReadingIDInput identifies a reading entry by path parameter.
type ReadingIDInput struct {
	ID string `path:"id" doc:"Reading ID"`
}

// UpdateReadingInput wraps the update reading request for Huma.
type UpdateReadingInput struct {
	ID   string `path:"id" doc:"Reading ID"`
	Body service.UpdateReadingRequest
}

// ReviewReadingInput wraps the reading-to-review transition request.
type ReviewReadingInput struct {
	ID   string `path:"id" doc:"Reading ID"`
	Body service.FinishBookRequest
}

// ReadingOutput wraps a single reading entry for Huma.
type ReadingOutput struct {
	Body *domain.Reading
}

// ReadingsResponse contains a user's reading list.
type ReadingsResponse struct {
	Readings []*domain.Reading `json:"readings" doc:"Reading entries, newest first"`
	Total    int               `json:"total" doc:"Number of entries"`
}

// ReadingsOutput wraps the reading list for Huma.
type ReadingsOutput struct {
	Body ReadingsResponse
}

// === Handlers ===

func (s *Server) handleCreateReading(ctx context.Context, input *CreateReadingInput) (*ReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reading, err := s.services.Log.CreateReading(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReadingOutput{Body: reading}, nil
}

func (s *Server) handleListReadings(ctx context.Context, _ *struct{}) (*ReadingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	readings, err := s.services.Log.ListReadings(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReadingsOutput{Body: ReadingsResponse{Readings: readings, Total: len(readings)}}, nil
}

func (s *Server) handleGetReading(ctx context.Context, input *ReadingIDInput) (*ReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reading, err := s.services.Log.GetReading(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReadingOutput{Body: reading}, nil
}

func (s *Server) handleUpdateReading(ctx context.Context, input *UpdateReadingInput) (*ReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reading, err := s.services.Log.UpdateReading(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReadingOutput{Body: reading}, nil
}

func (s *Server) handleDeleteReading(ctx context.Context, input *ReadingIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Log.DeleteReading(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Reading deleted"}}, nil
}

func (s *Server) handleReviewReading(ctx context.Context, input *ReviewReadingInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Log.MarkReadingAsReviewed(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}
