package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/messhall/internal/models"
)

// Redemption outcomes. NotFound and AlreadyUsed are reported distinctly so
// a point-of-service operator can tell a bad code from a consumed one.
const (
	RedemptionRedeemed    = "Redeemed"
	RedemptionAlreadyUsed = "AlreadyUsed"
	RedemptionNotFound    = "NotFound"
)

// RedemptionDetails describes the coupon being presented.
type RedemptionDetails struct {
	UserID      uuid.UUID  `json:"user_id"`
	OrderID     uuid.UUID  `json:"order_id"`
	MealSummary string     `json:"meal_summary"`
	Description string     `json:"description"`
	IssuedAt    time.Time  `json:"issued_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
}

// RedemptionResult is the outcome of presenting a coupon code.
type RedemptionResult struct {
	Status  string             `json:"status"`
	Details *RedemptionDetails `json:"details,omitempty"`
}

// CouponService validates and consumes meal coupons, and exposes the repair
// surface for orders whose coupon write failed at checkout.
type CouponService struct {
	coupons CouponStore
	orders  OrderStore
	now     func() time.Time
}

// NewCouponService constructs a CouponService.
func NewCouponService(coupons CouponStore, orders OrderStore) *CouponService {
	return &CouponService{coupons: coupons, orders: orders, now: time.Now}
}

// Redeem looks up the coupon by exact code and, if still valid, consumes it.
// Codes are machine-generated order ids and are matched case-sensitively.
//
// The valid-to-used transition is a conditional write: of any number of
// concurrent redemptions of the same code, exactly one gets Redeemed and the
// rest see AlreadyUsed with the winner's timestamp. Repeated calls on a
// consumed coupon are idempotent reads.
func (s *CouponService) Redeem(ctx context.Context, code string) (*RedemptionResult, error) {
	if code == "" {
		return nil, &ValidationError{Msg: "coupon code cannot be empty"}
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, &PersistenceError{Op: "coupon lookup", Err: err}
	}
	if coupon == nil {
		return &RedemptionResult{Status: RedemptionNotFound}, nil
	}

	if !coupon.IsValid {
		return &RedemptionResult{Status: RedemptionAlreadyUsed, Details: detailsFor(coupon)}, nil
	}

	usedAt := s.now()
	won, err := s.coupons.MarkUsed(ctx, code, usedAt)
	if err != nil {
		return nil, &PersistenceError{Op: "coupon redemption", Err: err}
	}

	if !won {
		// A concurrent redemption got there first; report its timestamp.
		coupon, err = s.coupons.GetByCode(ctx, code)
		if err != nil {
			return nil, &PersistenceError{Op: "coupon lookup", Err: err}
		}
		if coupon == nil {
			return &RedemptionResult{Status: RedemptionNotFound}, nil
		}
		return &RedemptionResult{Status: RedemptionAlreadyUsed, Details: detailsFor(coupon)}, nil
	}

	coupon.IsValid = false
	coupon.UsedAt = &usedAt
	return &RedemptionResult{Status: RedemptionRedeemed, Details: detailsFor(coupon)}, nil
}

// Lookup returns the coupon without consuming it.
func (s *CouponService) Lookup(ctx context.Context, code string) (*models.Coupon, error) {
	if code == "" {
		return nil, &ValidationError{Msg: "coupon code cannot be empty"}
	}
	return s.coupons.GetByCode(ctx, code)
}

// ListOrdersMissingCoupon returns orders that have no coupon record, i.e.
// checkouts whose issuance step failed and still needs repair.
func (s *CouponService) ListOrdersMissingCoupon(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListMissingCoupon(ctx)
}

// Reissue creates the missing coupon for an already-placed order. It is a
// no-op returning the existing coupon when one is already present.
func (s *CouponService) Reissue(ctx context.Context, orderID uuid.UUID) (*models.Coupon, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, &PersistenceError{Op: "order lookup", Err: err}
	}
	if order == nil {
		return nil, &ValidationError{Msg: "order not found"}
	}

	if existing, err := s.coupons.GetByCode(ctx, order.ID.String()); err != nil {
		return nil, &PersistenceError{Op: "coupon lookup", Err: err}
	} else if existing != nil {
		return existing, nil
	}

	coupon := couponForOrder(order)
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, &PersistenceError{Op: "coupon issuance", Err: err}
	}
	return coupon, nil
}

func detailsFor(coupon *models.Coupon) *RedemptionDetails {
	return &RedemptionDetails{
		UserID:      coupon.UserID,
		OrderID:     coupon.OrderID,
		MealSummary: coupon.MealSummary,
		Description: coupon.Description,
		IssuedAt:    coupon.IssuedAt,
		UsedAt:      coupon.UsedAt,
	}
}
