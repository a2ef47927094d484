package ports

import (
	"context"
	"time"

	"github.com/orderly/orders-api/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,bcrypt_len"`
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService defines account use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (int64, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
}

// TokenIssuer produces signed bearer tokens.
type TokenIssuer interface {
	Issue(id domain.Identity) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks bearer tokens and returns the embedded identity.
// Every failure is reported as domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}
