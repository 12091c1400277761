package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/messhall/internal/models"
)

// In-memory store fakes. The coupon fake guards MarkUsed with a mutex so the
// redemption race test exercises real contention.

type memMenuStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.MenuItem
}

func newMemMenuStore(items ...models.MenuItem) *memMenuStore {
	s := &memMenuStore{items: make(map[uuid.UUID]models.MenuItem)}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *memMenuStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []models.MenuItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			found = append(found, item)
		}
	}
	return found, nil
}

func (s *memMenuStore) delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

type memOrderStore struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]*models.Order
	coupons *memCouponStore
	failing bool
}

func newMemOrderStore(coupons *memCouponStore) *memOrderStore {
	return &memOrderStore{orders: make(map[uuid.UUID]*models.Order), coupons: coupons}
}

func (s *memOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return errors.New("order store unavailable")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *memOrderStore) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *memOrderStore) ListMissingCoupon(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []models.Order
	for id, order := range s.orders {
		if !s.coupons.has(id.String()) {
			missing = append(missing, *order)
		}
	}
	return missing, nil
}

func (s *memOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type memCouponStore struct {
	mu      sync.Mutex
	byCode  map[string]*models.Coupon
	failing bool
}

func newMemCouponStore() *memCouponStore {
	return &memCouponStore{byCode: make(map[string]*models.Coupon)}
}

func (s *memCouponStore) Create(_ context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return errors.New("coupon store unavailable")
	}
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	copied := *coupon
	s.byCode[coupon.Code] = &copied
	return nil
}

func (s *memCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coupon, ok := s.byCode[code]
	if !ok {
		return nil, nil
	}
	copied := *coupon
	return &copied, nil
}

func (s *memCouponStore) MarkUsed(_ context.Context, code string, usedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coupon, ok := s.byCode[code]
	if !ok || !coupon.IsValid {
		return false, nil
	}
	coupon.IsValid = false
	at := usedAt
	coupon.UsedAt = &at
	return true, nil
}

func (s *memCouponStore) has(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byCode[code]
	return ok
}

type memUserStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	failing bool
}

func newMemUserStore(users ...*models.User) *memUserStore {
	s := &memUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, user := range users {
		s.users[user.ID] = user
	}
	return s
}

func (s *memUserStore) RecordPurchase(_ context.Context, userID, orderID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return errors.New("user store unavailable")
	}
	user, ok := s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	purchasedAt := at
	order := orderID
	user.LastPurchaseAt = &purchasedAt
	user.LastOrderID = &order
	return nil
}

type fakeGateway struct {
	declineWith string
	err         error

	mu       sync.Mutex
	captured []float64
}

func (g *fakeGateway) Capture(_ context.Context, amount float64, _ string) (*CaptureResult, error) {
	g.mu.Lock()
	g.captured = append(g.captured, amount)
	g.mu.Unlock()

	if g.err != nil {
		return nil, g.err
	}
	if g.declineWith != "" {
		return &CaptureResult{Success: false, Message: g.declineWith}, nil
	}
	return &CaptureResult{Success: true, TransactionID: uuid.NewString()}, nil
}
