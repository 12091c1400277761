package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/messhall/internal/models"
	"github.com/example/messhall/internal/pricing"
)

// Stores required by the checkout and coupon services. Declared as
// interfaces so tests can run against in-memory fakes.

type MenuStore interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListMissingCoupon(ctx context.Context) ([]models.Order, error)
}

type CouponStore interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	// MarkUsed flips the coupon to redeemed only if it is still valid at
	// write time, and reports whether this caller won that write.
	MarkUsed(ctx context.Context, code string, usedAt time.Time) (bool, error)
}

type UserStore interface {
	RecordPurchase(ctx context.Context, userID, orderID uuid.UUID, at time.Time) error
}

// CheckoutResult is the outcome of a successful (possibly degraded)
// checkout. CouponIssued or ProfileUpdated being false means the order
// stands but that follow-up write failed and needs operator attention.
type CheckoutResult struct {
	OrderID        uuid.UUID `json:"order_id"`
	CouponCode     string    `json:"coupon_code,omitempty"`
	TotalAmount    float64   `json:"total_amount"`
	Currency       string    `json:"currency"`
	TransactionID  string    `json:"transaction_id"`
	CouponIssued   bool      `json:"coupon_issued"`
	ProfileUpdated bool      `json:"profile_updated"`
}

// CheckoutService coordinates payment capture, order persistence, coupon
// issuance, profile update and notification dispatch.
type CheckoutService struct {
	menu     MenuStore
	orders   OrderStore
	coupons  CouponStore
	users    UserStore
	gateway  PaymentGateway
	mail     *MailService
	telegram *TelegramService
	baseURL  string
	now      func() time.Time
}

// NewCheckoutService constructs a CheckoutService. baseURL is used to build
// the order-details link in the confirmation email.
func NewCheckoutService(menu MenuStore, orders OrderStore, coupons CouponStore, users UserStore,
	gateway PaymentGateway, mail *MailService, telegram *TelegramService, baseURL string) *CheckoutService {
	return &CheckoutService{
		menu:     menu,
		orders:   orders,
		coupons:  coupons,
		users:    users,
		gateway:  gateway,
		mail:     mail,
		telegram: telegram,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

const orderCurrency = "INR"

// Checkout places an order for the given user and selected menu item ids.
//
// The order write is the durability point: failures before it leave nothing
// behind, failures after it (coupon issuance, profile update, notifications)
// are reported on the result but never roll the order back.
func (s *CheckoutService) Checkout(ctx context.Context, user *models.User, itemIDs []uuid.UUID) (*CheckoutResult, error) {
	if len(itemIDs) == 0 {
		return nil, &ValidationError{Msg: "no meals selected"}
	}
	seen := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, dup := seen[id]; dup {
			return nil, &ValidationError{Msg: "duplicate meal selection"}
		}
		seen[id] = struct{}{}
	}

	now := s.now()

	eligibility := EvaluateEligibility(user, now)
	if !eligibility.Allowed {
		return nil, &RestrictedError{NextAllowedAt: *eligibility.NextAllowedAt}
	}

	items, err := s.menu.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, &PersistenceError{Op: "menu lookup", Err: err}
	}
	if len(items) != len(itemIDs) {
		return nil, &ValidationError{Msg: "one or more selected meals are no longer on the menu"}
	}

	// Total is recomputed from the pricing tables against the caller's
	// role snapshot; client-side amounts are never trusted.
	total := pricing.Total(items, user.Role)

	capture, err := s.gateway.Capture(ctx, total, orderCurrency)
	if err != nil {
		return nil, fmt.Errorf("payment capture: %w", err)
	}
	if !capture.Success {
		return nil, &PaymentDeclinedError{Reason: capture.Message}
	}

	order := &models.Order{
		UserID:        user.ID,
		UserEmail:     user.Email,
		UserName:      user.DisplayName,
		Currency:      orderCurrency,
		TransactionID: capture.TransactionID,
		TotalAmount:   total,
		PlacedAt:      now,
	}
	for i := range items {
		item := items[i]
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: &item.ID,
			Name:       item.Name,
			Day:        item.Day,
			MealType:   item.MealType,
			Calories:   item.Calories,
			UnitPrice:  pricing.Price(item.MealType, user.Role),
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, &PersistenceError{Op: "order write", Err: err}
	}

	result := &CheckoutResult{
		OrderID:        order.ID,
		TotalAmount:    total,
		Currency:       orderCurrency,
		TransactionID:  capture.TransactionID,
		CouponIssued:   true,
		ProfileUpdated: true,
	}

	coupon := couponForOrder(order)
	if err := s.coupons.Create(ctx, coupon); err != nil {
		log.Printf("[Checkout] coupon issuance failed for order %s: %v", order.ID, err)
		if s.telegram != nil {
			if notifyErr := s.telegram.NotifyCouponIssueFailure(order.ID.String(), err); notifyErr != nil {
				log.Printf("[Checkout] telegram alert failed: %v", notifyErr)
			}
		}
		result.CouponIssued = false
	} else {
		result.CouponCode = coupon.Code
	}

	if user.Role == models.RoleStudent {
		if err := s.users.RecordPurchase(ctx, user.ID, order.ID, now); err != nil {
			log.Printf("[Checkout] profile update failed for user %s: %v", user.ID, err)
			result.ProfileUpdated = false
		}
	}

	s.notify(user, order, result)

	return result, nil
}

// couponForOrder builds the single-use coupon for a freshly placed order.
// The code is the order id string, so the two are 1:1 by construction.
func couponForOrder(order *models.Order) *models.Coupon {
	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		names = append(names, item.Name)
	}

	return &models.Coupon{
		Code:        order.ID.String(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		MealSummary: strings.Join(names, ", "),
		Description: fmt.Sprintf("Meal coupon for order %s (%d meal(s))", order.ID, len(order.Items)),
		IsValid:     true,
		IssuedAt:    order.PlacedAt,
	}
}

func (s *CheckoutService) notify(user *models.User, order *models.Order, result *CheckoutResult) {
	if s.mail != nil {
		names := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			names = append(names, item.Name)
		}

		link := ""
		if s.baseURL != "" {
			link = fmt.Sprintf("%s/order-details/%s", s.baseURL, order.ID)
		}

		err := s.mail.SendOrderConfirmation(OrderConfirmation{
			Recipient:   user.Email,
			BuyerName:   user.DisplayName,
			OrderID:     order.ID.String(),
			MealNames:   names,
			TotalAmount: order.TotalAmount,
			DetailsLink: link,
		})
		if err != nil {
			log.Printf("[Checkout] confirmation email failed for order %s: %v", order.ID, err)
		}
	}

	if s.telegram != nil {
		meals := make([]MealLineNotification, 0, len(order.Items))
		for _, item := range order.Items {
			meals = append(meals, MealLineNotification{
				Name:     item.Name,
				MealType: item.MealType,
				Price:    item.UnitPrice,
			})
		}

		err := s.telegram.NotifyNewOrder(MealOrderNotification{
			OrderID:     order.ID.String(),
			BuyerName:   user.DisplayName,
			BuyerEmail:  user.Email,
			BuyerRole:   user.Role,
			Meals:       meals,
			TotalAmount: order.TotalAmount,
			CouponCode:  result.CouponCode,
		})
		if err != nil {
			log.Printf("[Checkout] telegram alert failed for order %s: %v", order.ID, err)
		}
	}
}
