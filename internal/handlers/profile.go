package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/middleware"
	"github.com/example/messhall/internal/models"
	"github.com/example/messhall/internal/services"
	"github.com/example/messhall/internal/utils"
)

// ProfileHandler manages the authenticated user's own profile.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the caller's profile along with their current
// purchase-eligibility state.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	eligibility := services.EvaluateEligibility(user, time.Now())

	return c.JSON(fiber.Map{
		"success":     true,
		"data":        user,
		"eligibility": eligibility,
	})
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
}

// UpdateProfile updates the caller's display name. Role and restriction
// state are not self-editable.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("display_name", req.DisplayName).Error; err != nil {
		return err
	}

	user.DisplayName = req.DisplayName
	return c.JSON(fiber.Map{"success": true, "data": user})
}
