package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/middleware"
	"github.com/example/messhall/internal/models"
	"github.com/example/messhall/internal/services"
	"github.com/example/messhall/internal/utils"
)

// OrderHandler manages checkout and order lookup endpoints.
type OrderHandler struct {
	db       *gorm.DB
	checkout *services.CheckoutService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkout}
}

type checkoutRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid4"`
}

// Checkout places an order for the authenticated user's selected meals.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	itemIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item id: "+raw)
		}
		itemIDs = append(itemIDs, id)
	}

	result, err := h.checkout.Checkout(c.Context(), user, itemIDs)
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			return fiber.NewError(fiber.StatusBadRequest, valErr.Error())
		}

		var restricted *services.RestrictedError
		if errors.As(err, &restricted) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":         false,
				"error":           "weekly purchase limit reached",
				"next_allowed_at": restricted.NextAllowedAt,
			})
		}

		var declined *services.PaymentDeclinedError
		if errors.As(err, &declined) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"success": false,
				"error":   declined.Error(),
			})
		}

		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// ListOrders returns the authenticated user's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", user.ID).Model(&models.Order{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order with its item snapshots. Buyers can only
// see their own orders; Admin and Staff can inspect any order.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	query := h.db.Preload("Items")
	if user.Role != models.RoleAdmin && user.Role != models.RoleStaff {
		query = query.Where("user_id = ?", user.ID)
	}

	var order models.Order
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
