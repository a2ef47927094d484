package ports

import (
	"context"

	"github.com/orderly/orders-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	// FindByEmail returns the full record including the password hash.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create inserts the user and returns its new id. A unique-constraint
	// violation on email is reported as domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (int64, error)
}
