package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted status in display order.
var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled}

// Valid reports whether s belongs to the fixed status enumeration.
func (s OrderStatus) Valid() bool {
	for _, allowed := range OrderStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Order is a business record owned by exactly one user.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	UserName    string      `json:"user_name,omitempty"`
	Description string      `json:"description"`
	Status      OrderStatus `json:"status"`
	Total       float64     `json:"total"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderChanges holds the allow-listed fields an update may touch.
// Nil means "leave unchanged".
type OrderChanges struct {
	Description *string
	Status      *OrderStatus
	Total       *float64
}

// Empty reports whether no field is set.
func (c OrderChanges) Empty() bool {
	return c.Description == nil && c.Status == nil && c.Total == nil
}
