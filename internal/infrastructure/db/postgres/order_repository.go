package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

type orderRow struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	UserID      int64   `gorm:"not null;index"`
	UserName    string  `gorm:"->;column:user_name"`
	Description string  `gorm:"type:text;not null"`
	Status      string  `gorm:"size:20;not null"`
	Total       float64 `gorm:"type:numeric(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (orderRow) TableName() string { return "orders" }

func (r orderRow) toDomain() *domain.Order {
	return &domain.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Description: r.Description,
		Status:      domain.OrderStatus(r.Status),
		Total:       r.Total,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// changeSet converts the allow-listed changes to a column map for Updates.
func changeSet(c domain.OrderChanges, now time.Time) map[string]any {
	set := map[string]any{"updated_at": now}
	if c.Description != nil {
		set["description"] = *c.Description
	}
	if c.Status != nil {
		set["status"] = string(*c.Status)
	}
	if c.Total != nil {
		set["total"] = *c.Total
	}
	return set
}

// OrderRepository implements ports.OrderRepository on PostgreSQL. Every query
// carries a user_id predicate.
type OrderRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderRepository(db *gorm.DB) ports.OrderRepository {
	return &OrderRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *OrderRepository) List(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&orderRow{}).Where("orders.user_id = ?", f.UserID)
		if f.Status != "" {
			q = q.Where("orders.status = ?", string(f.Status))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var rows []orderRow
	err := scoped().
		Select("orders.*, users.name AS user_name").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC, orders.id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	items := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, total, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).
		Model(&orderRow{}).
		Select("orders.*, users.name AS user_name").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.id = ? AND orders.user_id = ?", id, userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return row.toDomain(), nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (int64, error) {
	row := orderRow{
		UserID:      o.UserID,
		Description: o.Description,
		Status:      string(o.Status),
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return row.ID, nil
}

// Update reports false when no row matched id for userID.
func (r *OrderRepository) Update(ctx context.Context, id, userID int64, c domain.OrderChanges) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&orderRow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(changeSet(c, r.now()))
	if res.Error != nil {
		return false, fmt.Errorf("update order: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete reports false when no row matched id for userID.
func (r *OrderRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&orderRow{})
	if res.Error != nil {
		return false, fmt.Errorf("delete order: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
