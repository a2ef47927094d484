package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
	"github.com/orderly/orders-api/internal/pkg/validation"
)

// CredentialStore hashes and verifies passwords on top of a UserRepository.
type CredentialStore struct {
	repo ports.UserRepository
	cost int
}

// NewCredentialStore returns a store hashing with the given bcrypt cost.
// Out-of-range costs fall back to bcrypt.DefaultCost.
func NewCredentialStore(repo ports.UserRepository, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{repo: repo, cost: cost}
}

func (s *CredentialStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, normalizeEmail(email))
}

// FindByEmail returns the stored record including the password hash. It is
// meant for internal use only and must never be rendered to clients.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

func (s *CredentialStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Create hashes password and stores a new user. The existence probe only
// short-circuits the common case; the unique index on email is what makes
// concurrent registrations safe.
func (s *CredentialStore) Create(ctx context.Context, name, email, password string) (int64, error) {
	email = normalizeEmail(email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return 0, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		verr := domain.NewValidationError()
		verr.Add("password", fmt.Sprintf("password must be at most %d bytes", validation.MaxPasswordBytes))
		return 0, verr
	}
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// VerifyCredentials returns the user with the hash stripped when password
// matches. A missing user and a wrong password both yield
// domain.ErrInvalidCredentials.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user.Public(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
