package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/service"
)

func (s *Server) registerPlanRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createPlan",
		Method:      http.MethodPost,
		Path:        "/api/v1/plans",
		Summary:     "Plan a book",
		Description: "Adds a book to the plan-to-read list. A book can only be planned once.",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePlan)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPlans",
		Method:      http.MethodGet,
		Path:        "/api/v1/plans",
		Summary:     "List planned books",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPlans)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlan",
		Method:      http.MethodGet,
		Path:        "/api/v1/plans/{id}",
		Summary:     "Get a plan entry",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPlan)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePlan",
		Method:      http.MethodPatch,
		Path:        "/api/v1/plans/{id}",
		Summary:     "Update a plan entry",
		Description: "Updates the note or date of a plan entry. Omitted fields are unchanged.",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePlan)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlan",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plans/{id}",
		Summary:     "Delete a plan entry",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePlan)

	huma.Register(s.api, huma.Operation{
		OperationID: "startReadingPlan",
		Method:      http.MethodPost,
		Path:        "/api/v1/plans/{id}/reading",
		Summary:     "Start reading a planned book",
		Description: "Moves a planned book to the reading list. The plan entry is consumed.",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartReadingPlan)

	huma.Register(s.api, huma.Operation{
		OperationID: "reviewPlan",
		Method:      http.MethodPost,
		Path:        "/api/v1/plans/{id}/review",
		Summary:     "Review a planned book",
		Description: "Marks a planned book as read, recording a review. The plan entry is consumed.",
		Tags:        []string{"Plans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReviewPlan)
}

// === DTOs ===

// CreatePlanInput wraps the create plan request for Huma.
type CreatePlanInput struct {
	Body service.CreatePlanRequest
}

// PlanIDInput identifies a plan entry by path parameter.
type PlanIDInput struct {
	ID string `path:"id" doc:"Plan ID"`
}

// UpdatePlanInput wraps the update plan request for Huma.
type UpdatePlanInput struct {
	ID   string `path:"id" doc:"Plan ID"`
	Body service.UpdatePlanRequest
}

// StartReadingInput wraps the plan-to-reading transition request.
type StartReadingInput struct {
	ID   string `path:"id" doc:"Plan ID"`
	Body service.StartReadingRequest
}

// ReviewPlanInput wraps the plan-to-review transition request.
type ReviewPlanInput struct {
	ID   string `path:"id" doc:"Plan ID"`
	Body service.FinishBookRequest
}

// PlanOutput wraps a single plan entry for Huma.
type PlanOutput struct {
	Body *domain.Plan
}

// PlansResponse contains a user's plan list.
type PlansResponse struct {
	Plans []*domain.Plan `json:"plans" doc:"Plan entries, newest first"`
	Total int            `json:"total" doc:"Number of entries"`
}

// PlansOutput wraps the plan list for Huma.
type PlansOutput struct {
	Body PlansResponse
}

// === Handlers ===

func (s *Server) handleCreatePlan(ctx context.Context, input *CreatePlanInput) (*PlanOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.services.Log.CreatePlan(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PlanOutput{Body: plan}, nil
}

func (s *Server) handleListPlans(ctx context.Context, _ *struct{}) (*PlansOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.services.Log.ListPlans(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PlansOutput{Body: PlansResponse{Plans: plans, Total: len(plans)}}, nil
}

func (s *Server) handleGetPlan(ctx context.Context, input *PlanIDInput) (*PlanOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.services.Log.GetPlan(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &PlanOutput{Body: plan}, nil
}

func (s *Server) handleUpdatePlan(ctx context.Context, input *UpdatePlanInput) (*PlanOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.services.Log.UpdatePlan(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PlanOutput{Body: plan}, nil
}

func (s *Server) handleDeletePlan(ctx context.Context, input *PlanIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Log.DeletePlan(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Plan deleted"}}, nil
}

func (s *Server) handleStartReadingPlan(ctx context.Context, input *StartReadingInput) (*ReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reading, err := s.services.Log.MarkPlanAsReading(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReadingOutput{Body: reading}, nil
}

func (s *Server) handleReviewPlan(ctx context.Context, input *ReviewPlanInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Log.MarkPlanAsReviewed(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}
