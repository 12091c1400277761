package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/models"
)

// UserRepo mutates profile purchase-restriction state.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// RecordPurchase stamps the profile with the order that was just placed.
// Both fields move together, keeping the either-both-or-neither invariant.
func (r *UserRepo) RecordPurchase(ctx context.Context, userID, orderID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_purchase_at": at,
			"last_order_id":    orderID,
		}).Error
}
