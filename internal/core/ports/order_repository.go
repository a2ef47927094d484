package ports

import (
	"context"

	"github.com/orderly/orders-api/internal/core/domain"
)

// ListOrdersFilter carries the query parameters for a page of orders.
// UserID is mandatory; the repository never lists across owners.
type ListOrdersFilter struct {
	UserID int64
	Status domain.OrderStatus // optional
	Limit  int
	Offset int
}

// OrderRepository defines persistence operations for orders. Every method is
// scoped by the owning user id.
type OrderRepository interface {
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// FindByID returns domain.ErrOrderNotFound when the order does not exist or
	// belongs to another user.
	FindByID(ctx context.Context, id, userID int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) (int64, error)
	Update(ctx context.Context, id, userID int64, changes domain.OrderChanges) (bool, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}
