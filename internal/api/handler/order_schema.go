package handler

import "time"

// --- Request / Response types ---

type createOrderRequest struct {
	Description string   `json:"description" example:"Two boxes of A4 paper"`
	Status      *string  `json:"status"      example:"pending"`
	Total       *float64 `json:"total"       example:"49.90"`
}

// updateOrderRequest lists the only fields an update may touch; any other
// JSON member is ignored.
type updateOrderRequest struct {
	Description *string  `json:"description" example:"Three boxes of A4 paper"`
	Status      *string  `json:"status"      example:"completed"`
	Total       *float64 `json:"total"       example:"74.85"`
}

type orderResponse struct {
	ID          int64     `json:"id"                  example:"12"`
	UserID      int64     `json:"user_id"             example:"1"`
	UserName    string    `json:"user_name,omitempty" example:"Ana Souza"`
	Description string    `json:"description"         example:"Two boxes of A4 paper"`
	Status      string    `json:"status"              example:"pending"`
	Total       float64   `json:"total"               example:"49.90"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type paginationResponse struct {
	CurrentPage int   `json:"current_page" example:"1"`
	PerPage     int   `json:"per_page"     example:"10"`
	Total       int64 `json:"total"        example:"25"`
	TotalPages  int   `json:"total_pages"  example:"3"`
	HasNext     bool  `json:"has_next"     example:"true"`
	HasPrev     bool  `json:"has_prev"     example:"false"`
}

type listOrdersResponse struct {
	Items      []orderResponse    `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type orderIDResponse struct {
	OrderID int64 `json:"order_id" example:"12"`
}
