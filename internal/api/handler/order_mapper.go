package handler

import (
	"net/url"
	"strconv"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateOrderInput(req createOrderRequest, userID int64) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		UserID:      userID,
		Description: req.Description,
		Status:      req.Status,
		Total:       req.Total,
	}
}

func toUpdateOrderInput(req updateOrderRequest) ports.UpdateOrderInput {
	return ports.UpdateOrderInput{
		Description: req.Description,
		Status:      req.Status,
		Total:       req.Total,
	}
}

// --- Service output → Response ---

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		UserName:    o.UserName,
		Description: o.Description,
		Status:      string(o.Status),
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toListOrdersResponse(res *ports.ListOrdersResult) listOrdersResponse {
	items := make([]orderResponse, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, toOrderResponse(o))
	}
	return listOrdersResponse{
		Items: items,
		Pagination: paginationResponse{
			CurrentPage: res.Page,
			PerPage:     res.Limit,
			Total:       res.Total,
			TotalPages:  res.TotalPages,
			HasNext:     res.HasNext,
			HasPrev:     res.HasPrev,
		},
	}
}

// --- Path and query parsing ---

// parseOrderID returns domain.ErrOrderNotFound for anything that is not a
// positive integer, so malformed ids read like unknown ones.
func parseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrOrderNotFound
	}
	return id, nil
}

// queryInt parses an integer query parameter; absent or malformed values are 0.
func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// optionalQueryInt is queryInt for parameters whose absence selects a default:
// it returns nil only when name is missing from the query string.
func optionalQueryInt(q url.Values, name string) *int {
	if !q.Has(name) {
		return nil
	}
	n := queryInt(q.Get(name))
	return &n
}
