package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/models"
)

// OrderRepo persists the append-only order ledger.
type OrderRepo struct {
	db *gorm.DB
}

// NewOrderRepo constructs an OrderRepo.
func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create writes the order and its item snapshots in one insert.
func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID returns the order with its item snapshots, or nil when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListMissingCoupon returns orders with no coupon record, i.e. checkouts
// whose issuance step failed.
func (r *OrderRepo) ListMissingCoupon(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM coupons WHERE coupons.order_id = orders.id)").
		Order("placed_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
