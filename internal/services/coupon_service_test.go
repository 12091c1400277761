package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/messhall/internal/models"
)

func issueTestCoupon(t *testing.T, store *memCouponStore) *models.Coupon {
	t.Helper()

	orderID := uuid.New()
	coupon := &models.Coupon{
		Code:        orderID.String(),
		OrderID:     orderID,
		UserID:      uuid.New(),
		MealSummary: "Scrambled Eggs & Toast",
		Description: "Meal coupon for order " + orderID.String() + " (1 meal(s))",
		IsValid:     true,
		IssuedAt:    time.Now(),
	}
	require.NoError(t, store.Create(context.Background(), coupon))
	return coupon
}

func TestRedeemValidCoupon(t *testing.T) {
	coupons := newMemCouponStore()
	service := NewCouponService(coupons, newMemOrderStore(coupons))
	coupon := issueTestCoupon(t, coupons)
	ctx := context.Background()

	result, err := service.Redeem(ctx, coupon.Code)
	require.NoError(t, err)
	assert.Equal(t, RedemptionRedeemed, result.Status)
	require.NotNil(t, result.Details)
	assert.Equal(t, coupon.UserID, result.Details.UserID)
	require.NotNil(t, result.Details.UsedAt)
	firstUsedAt := *result.Details.UsedAt

	// Second presentation is an idempotent read reporting the original
	// redemption time.
	again, err := service.Redeem(ctx, coupon.Code)
	require.NoError(t, err)
	assert.Equal(t, RedemptionAlreadyUsed, again.Status)
	require.NotNil(t, again.Details.UsedAt)
	assert.Equal(t, firstUsedAt, *again.Details.UsedAt)
}

func TestRedeemUnknownCode(t *testing.T) {
	coupons := newMemCouponStore()
	service := NewCouponService(coupons, newMemOrderStore(coupons))
	coupon := issueTestCoupon(t, coupons)

	result, err := service.Redeem(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, RedemptionNotFound, result.Status)
	assert.Nil(t, result.Details)

	// Nothing was mutated.
	stored, err := coupons.GetByCode(context.Background(), coupon.Code)
	require.NoError(t, err)
	assert.True(t, stored.IsValid)
}

func TestRedeemEmptyCode(t *testing.T) {
	coupons := newMemCouponStore()
	service := NewCouponService(coupons, newMemOrderStore(coupons))

	_, err := service.Redeem(context.Background(), "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

// Codes are order ids matched exactly; no case normalization happens.
func TestRedeemIsCaseSensitive(t *testing.T) {
	coupons := newMemCouponStore()
	service := NewCouponService(coupons, newMemOrderStore(coupons))
	coupon := issueTestCoupon(t, coupons)

	result, err := service.Redeem(context.Background(), strings.ToUpper(coupon.Code))
	require.NoError(t, err)
	assert.Equal(t, RedemptionNotFound, result.Status)
}

// Concurrent redemptions of the same code: exactly one caller wins, the
// rest observe AlreadyUsed with the winner's timestamp.
func TestRedeemConcurrentDoubleSpend(t *testing.T) {
	coupons := newMemCouponStore()
	service := NewCouponService(coupons, newMemOrderStore(coupons))
	coupon := issueTestCoupon(t, coupons)
	ctx := context.Background()

	const attempts = 8
	results := make([]*RedemptionResult, attempts)
	errs := make([]error, attempts)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = service.Redeem(ctx, coupon.Code)
		}(i)
	}
	close(start)
	wg.Wait()

	var redeemed, alreadyUsed int
	var winnerUsedAt *time.Time
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		switch results[i].Status {
		case RedemptionRedeemed:
			redeemed++
			winnerUsedAt = results[i].Details.UsedAt
		case RedemptionAlreadyUsed:
			alreadyUsed++
		default:
			t.Fatalf("unexpected status %q", results[i].Status)
		}
	}

	assert.Equal(t, 1, redeemed, "exactly one caller may win")
	assert.Equal(t, attempts-1, alreadyUsed)

	require.NotNil(t, winnerUsedAt)
	for i := 0; i < attempts; i++ {
		if results[i].Status == RedemptionAlreadyUsed {
			require.NotNil(t, results[i].Details.UsedAt)
			assert.Equal(t, *winnerUsedAt, *results[i].Details.UsedAt)
		}
	}
}

func TestLookupDoesNotConsume(t *testing.T) {
	coupons := newMemCouponStore()
	service := NewCouponService(coupons, newMemOrderStore(coupons))
	coupon := issueTestCoupon(t, coupons)
	ctx := context.Background()

	found, err := service.Lookup(ctx, coupon.Code)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.IsValid)

	stored, err := coupons.GetByCode(ctx, coupon.Code)
	require.NoError(t, err)
	assert.True(t, stored.IsValid)
}

func TestReissueExistingCouponIsNoop(t *testing.T) {
	coupons := newMemCouponStore()
	orders := newMemOrderStore(coupons)
	service := NewCouponService(coupons, orders)
	ctx := context.Background()

	order := &models.Order{
		UserID:   uuid.New(),
		PlacedAt: time.Now(),
		Items:    []models.OrderItem{{Name: "Lentil Soup", MealType: models.MealDinner, UnitPrice: 40}},
	}
	require.NoError(t, orders.Create(ctx, order))

	first, err := service.Reissue(ctx, order.ID)
	require.NoError(t, err)
	second, err := service.Reissue(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)
	assert.True(t, second.IsValid)
}
