package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-service/internal/models"
)

// OrderRepositoryInterface defines order persistence operations
type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByCustomOrderID(ctx context.Context, customOrderID string) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatusField(ctx context.Context, id uuid.UUID, status models.OrderState) error
	GetOrderStatusByCollectID(ctx context.Context, collectID uuid.UUID) (*models.OrderStatus, error)
	UpsertOrderStatus(ctx context.Context, status *models.OrderStatus) error
}

// OrderRepository handles order and order status data operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts a new order. Returns ErrDuplicateKey when the
// custom_order_id collides with an existing order.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order %s: %w", order.CustomOrderID, ErrDuplicateKey)
		}
		return err
	}
	return nil
}

// GetOrderByID gets an order by its collect id
func (r *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderByCustomOrderID gets an order by its human-readable identifier
func (r *OrderRepository) GetOrderByCustomOrderID(ctx context.Context, customOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("custom_order_id = ?", customOrderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrder saves an order
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdateOrderStatusField updates only the coarse status column of an order
func (r *OrderRepository) UpdateOrderStatusField(ctx context.Context, id uuid.UUID, status models.OrderState) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrderStatusByCollectID gets the settlement record for an order
func (r *OrderRepository) GetOrderStatusByCollectID(ctx context.Context, collectID uuid.UUID) (*models.OrderStatus, error) {
	var status models.OrderStatus
	err := r.db.WithContext(ctx).Where("collect_id = ?", collectID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// UpsertOrderStatus writes the settlement record for an order, keyed by
// collect_id. Last write wins: an existing row is overwritten in full. When
// two deliveries race on the insert, the loser retries as an update.
func (r *OrderRepository) UpsertOrderStatus(ctx context.Context, status *models.OrderStatus) error {
	var existing models.OrderStatus
	err := r.db.WithContext(ctx).Where("collect_id = ?", status.CollectID).First(&existing).Error
	if err == nil {
		status.ID = existing.ID
		status.CreatedAt = existing.CreatedAt
		status.UpdatedAt = time.Now()
		return r.db.WithContext(ctx).Save(status).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	createErr := r.db.WithContext(ctx).Create(status).Error
	if createErr == nil {
		return nil
	}
	if !isUniqueViolation(createErr) {
		return createErr
	}

	// Lost the insert race; fall back to overwriting the winner's row. If no
	// row exists for this collect_id the violation was on another unique
	// column (bank_reference) and there is nothing to overwrite.
	if err := r.db.WithContext(ctx).Where("collect_id = ?", status.CollectID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDuplicateKey
		}
		return createErr
	}
	status.ID = existing.ID
	status.CreatedAt = existing.CreatedAt
	status.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(status).Error
}
