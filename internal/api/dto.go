package api

import (
	"time"

	"github.com/shelflog/shelflog-server/internal/domain"
)

// MessageResponse carries a simple status message.
type MessageResponse struct {
	Message string `json:"message" doc:"Status message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// UserResponse contains user information in API responses.
// The password hash never leaves the service layer through this type.
type UserResponse struct {
	ID        string    `json:"id" doc:"User ID"`
	Username  string    `json:"username" doc:"Username"`
	Email     string    `json:"email,omitempty" doc:"Email address"`
	CreatedAt time.Time `json:"created_at" doc:"Account creation time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
