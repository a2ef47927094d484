package ports

import (
	"context"

	"github.com/orderly/orders-api/internal/core/domain"
)

// ListOrdersInput carries the parameters of the list endpoint.
type ListOrdersInput struct {
	UserID int64
	Status string
	Page   int  // 1-based
	Limit  *int // nil selects the default page size
}

// ListOrdersResult is returned by ListOrders.
type ListOrdersResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// CreateOrderInput carries the fields of a new order. Optional fields are nil
// when absent from the request.
type CreateOrderInput struct {
	UserID      int64
	Description string
	Status      *string
	Total       *float64
}

// UpdateOrderInput carries the allow-listed fields of a partial update.
type UpdateOrderInput struct {
	Description *string
	Status      *string
	Total       *float64
}

// OrderService defines the ownership-scoped order use cases.
type OrderService interface {
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	GetOrder(ctx context.Context, id, userID int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (int64, error)
	UpdateOrder(ctx context.Context, id, userID int64, input UpdateOrderInput) error
	DeleteOrder(ctx context.Context, id, userID int64) error
}
