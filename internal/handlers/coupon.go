package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/messhall/internal/services"
)

// CouponHandler exposes coupon validation and the issuance repair surface.
type CouponHandler struct {
	coupons *services.CouponService
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(coupons *services.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

type redeemRequest struct {
	Code string `json:"code"`
}

// Redeem validates a presented coupon code and, if it is still valid,
// consumes it. The three outcomes map to distinct HTTP statuses so the
// point-of-service UI can tell a bad code from a consumed one.
func (h *CouponHandler) Redeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.coupons.Redeem(c.Context(), req.Code)
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			return fiber.NewError(fiber.StatusBadRequest, valErr.Error())
		}
		return err
	}

	switch result.Status {
	case services.RedemptionNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"status":  result.Status,
			"message": "coupon code is invalid or does not exist",
		})
	case services.RedemptionAlreadyUsed:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"status":  result.Status,
			"message": "coupon has already been used",
			"details": result.Details,
		})
	default:
		return c.JSON(fiber.Map{
			"success": true,
			"status":  result.Status,
			"message": "coupon is valid and has been successfully redeemed",
			"details": result.Details,
		})
	}
}

// GetCoupon returns a coupon by code without consuming it.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	coupon, err := h.coupons.Lookup(c.Context(), c.Params("code"))
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			return fiber.NewError(fiber.StatusBadRequest, valErr.Error())
		}
		return err
	}
	if coupon == nil {
		return fiber.NewError(fiber.StatusNotFound, "coupon not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": coupon})
}

// ListOrdersMissingCoupon reports orders whose coupon issuance failed at
// checkout and still needs repair.
func (h *CouponHandler) ListOrdersMissingCoupon(c *fiber.Ctx) error {
	orders, err := h.coupons.ListOrdersMissingCoupon(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// ReissueCoupon creates the missing coupon for an already-placed order.
func (h *CouponHandler) ReissueCoupon(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	coupon, err := h.coupons.Reissue(c.Context(), orderID)
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			return fiber.NewError(fiber.StatusNotFound, valErr.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": coupon})
}
