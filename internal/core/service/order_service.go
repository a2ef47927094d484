package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
	"github.com/orderly/orders-api/internal/pkg/validation"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
	maxPage          = math.MaxInt32
)

// createOrderRules and updateOrderRules hold the validation tags for order
// payloads. omitnil lets an explicit empty value fail instead of being skipped.
// The total bound matches the NUMERIC(10,2) column.
type createOrderRules struct {
	Description string   `json:"description" validate:"required,min=5,max=500"`
	Status      *string  `json:"status"      validate:"omitnil,order_status"`
	Total       *float64 `json:"total"       validate:"omitnil,gte=0,lte=99999999.99"`
}

type updateOrderRules struct {
	Description *string  `json:"description" validate:"omitnil,min=5,max=500"`
	Status      *string  `json:"status"      validate:"omitnil,order_status"`
	Total       *float64 `json:"total"       validate:"omitnil,gte=0,lte=99999999.99"`
}

// OrderService implements ownership-scoped order use cases. Every method takes
// the caller's user id and never touches rows owned by someone else.
type OrderService struct {
	repo     ports.OrderRepository
	validate *validation.Validator
	logger   zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, validate *validation.Validator, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, validate: validate, logger: logger}
}

// ListOrders returns one page of the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	status := domain.OrderStatus(strings.TrimSpace(input.Status))
	if status != "" && !status.Valid() {
		verr := domain.NewValidationError()
		verr.Add("status", "status must be one of: pending, in_progress, completed, cancelled")
		return nil, verr
	}

	items, total, err := s.repo.List(ctx, ports.ListOrdersFilter{
		UserID: input.UserID,
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Order{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// GetOrder returns domain.ErrOrderNotFound for missing and foreign orders alike.
func (s *OrderService) GetOrder(ctx context.Context, id, userID int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.repo.FindByID(ctx, id, userID)
}

// CreateOrder validates input before any database call and stores the order
// with the caller as owner.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (int64, error) {
	rules := createOrderRules{
		Description: strings.TrimSpace(input.Description),
		Status:      trimmed(input.Status),
		Total:       input.Total,
	}
	if err := s.validate.Struct(&rules); err != nil {
		return 0, err
	}

	order := &domain.Order{
		UserID:      input.UserID,
		Description: rules.Description,
		Status:      domain.OrderPending,
	}
	if rules.Status != nil {
		order.Status = domain.OrderStatus(*rules.Status)
	}
	if rules.Total != nil {
		order.Total = *rules.Total
	}
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	id, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to create order")
		return 0, err
	}

	s.logger.Info().Int64("order_id", id).Int64("user_id", input.UserID).Msg("order created")
	return id, nil
}

// UpdateOrder applies the allow-listed fields present in input. Ownership is
// confirmed first so a foreign order reads as not found.
func (s *OrderService) UpdateOrder(ctx context.Context, id, userID int64, input ports.UpdateOrderInput) error {
	rules := updateOrderRules{
		Description: trimmed(input.Description),
		Status:      trimmed(input.Status),
		Total:       input.Total,
	}
	if err := s.validate.Struct(&rules); err != nil {
		return err
	}

	changes := domain.OrderChanges{Description: rules.Description, Total: rules.Total}
	if rules.Status != nil {
		st := domain.OrderStatus(*rules.Status)
		changes.Status = &st
	}
	if changes.Empty() {
		return domain.ErrNoUpdatableFields
	}

	if _, err := s.GetOrder(ctx, id, userID); err != nil {
		return err
	}

	updated, err := s.repo.Update(ctx, id, userID, changes)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrOrderNotFound
	}

	s.logger.Info().Int64("order_id", id).Int64("user_id", userID).Msg("order updated")
	return nil
}

// DeleteOrder removes the caller's order. Deleting an already deleted order
// yields domain.ErrOrderNotFound.
func (s *OrderService) DeleteOrder(ctx context.Context, id, userID int64) error {
	if _, err := s.GetOrder(ctx, id, userID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrOrderNotFound
	}

	s.logger.Info().Int64("order_id", id).Int64("user_id", userID).Msg("order deleted")
	return nil
}

// normalizePage clamps page to [1, maxPage] and limit to [1, maxPageLimit]; a
// nil limit selects defaultPageLimit.
func normalizePage(page int, limit *int) (int, int) {
	page = min(max(page, 1), maxPage)
	if limit == nil {
		return page, defaultPageLimit
	}
	return page, min(max(*limit, 1), maxPageLimit)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
