package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
	"github.com/orderly/orders-api/internal/pkg/validation"
)

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	credentials *CredentialStore
	tokens      ports.TokenIssuer
	validate    *validation.Validator
	log         zerolog.Logger
}

func NewAuthService(credentials *CredentialStore, tokens ports.TokenIssuer, validate *validation.Validator, log zerolog.Logger) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens, validate: validate, log: log}
}

// Register validates input and creates the account, returning the new user id.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(&input); err != nil {
		return 0, err
	}

	id, err := s.credentials.Create(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("user_id", id).Msg("user registered")
	return id, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(&input); err != nil {
		return nil, err
	}

	user, err := s.credentials.VerifyCredentials(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(domain.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Profile returns the public view of the user.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.credentials.FindByID(ctx, userID)
}
