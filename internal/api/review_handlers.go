package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/reviews",
		Summary:     "Log a read book",
		Description: "Records a finished (or abandoned) book directly. Logging the same book again records a re-read.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews",
		Summary:     "List read books",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Get a review",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Update a review",
		Description: "Updates review text, read date, or flags. Omitted fields are unchanged.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Delete a review",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)
}

// === DTOs ===

// CreateReviewInput wraps the create review request for Huma.
type CreateReviewInput struct {
	Body service.CreateReviewRequest
}

// ReviewIDInput identifies a review by path parameter.
type ReviewIDInput struct {
	ID string `path:"id" doc:"Review ID"`
}

// UpdateReviewInput wraps the update review request for Huma.
type UpdateReviewInput struct {
	ID   string `path:"id" doc:"Review ID"`
	Body service.UpdateReviewRequest
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body *domain.Review
}

// ReviewsResponse contains a user's review list.
type ReviewsResponse struct {
	Reviews []*domain.Review `json:"reviews" doc:"Reviews, newest first"`
	Total   int              `json:"total" doc:"Number of reviews"`
}

// ReviewsOutput wraps the review list for Huma.
type ReviewsOutput struct {
	Body ReviewsResponse
}

// === Handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Log.CreateReview(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleListReviews(ctx context.Context, _ *struct{}) (*ReviewsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.services.Log.ListReviews(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReviewsOutput{Body: ReviewsResponse{Reviews: reviews, Total: len(reviews)}}, nil
}

func (s *Server) handleGetReview(ctx context.Context, input *ReviewIDInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Log.GetReview(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Log.UpdateReview(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *ReviewIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Log.DeleteReview(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}
