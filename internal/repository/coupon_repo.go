package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/messhall/internal/models"
)

// CouponRepo persists coupons. Redemption goes through MarkUsed, which is
// the only write path that flips a coupon's validity.
type CouponRepo struct {
	db *gorm.DB
}

// NewCouponRepo constructs a CouponRepo.
func NewCouponRepo(db *gorm.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

// Create inserts a freshly issued coupon.
func (r *CouponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// GetByCode returns the coupon with the exact code, or nil when absent.
// Codes are never normalized.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// MarkUsed consumes the coupon with a single conditional update: the row is
// touched only if is_valid is still true at write time, so concurrent
// redemptions of the same code serialize on the row and exactly one caller
// sees rows-affected = 1.
func (r *CouponRepo) MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ? AND is_valid = ?", code, true).
		Updates(map[string]any{
			"is_valid": false,
			"used_at":  usedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
