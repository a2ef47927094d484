package handler

import (
	"time"

	"github.com/orderly/orders-api/internal/core/domain"
)

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"    example:"Ana Souza"`
	Email    string `json:"email"    validate:"required,email,max=255"    example:"ana@example.com"`
	Password string `json:"password" validate:"required,min=6,bcrypt_len" example:"s3cret!"`
}

// loginRequest only checks presence; a malformed email fails as bad credentials.
type loginRequest struct {
	Email    string `json:"email"    validate:"required" example:"ana@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret!"`
}

type registerResponse struct {
	UserID int64 `json:"user_id" example:"1"`
}

type userResponse struct {
	ID        int64     `json:"id"         example:"1"`
	Name      string    `json:"name"       example:"Ana Souza"`
	Email     string    `json:"email"      example:"ana@example.com"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
