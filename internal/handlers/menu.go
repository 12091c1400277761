package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/middleware"
	"github.com/example/messhall/internal/models"
	"github.com/example/messhall/internal/pricing"
	"github.com/example/messhall/internal/utils"
)

// MenuHandler manages the weekly menu catalog.
type MenuHandler struct {
	db *gorm.DB
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

type menuItemResponse struct {
	models.MenuItem
	Price float64 `json:"price"`
}

// ListMenu returns all menu items ordered by name. Each item carries the
// price for the caller's role alongside the admin-set base price, computed
// from the same tables checkout uses.
func (h *MenuHandler) ListMenu(c *fiber.Ctx) error {
	var items []models.MenuItem
	if err := h.db.Order("name asc").Find(&items).Error; err != nil {
		return err
	}

	role := ""
	if user, ok := middleware.GetCurrentUser(c); ok {
		role = user.Role
	}

	priced := make([]menuItemResponse, 0, len(items))
	for _, item := range items {
		priced = append(priced, menuItemResponse{
			MenuItem: item,
			Price:    pricing.Price(item.MealType, role),
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": priced})
}

// GetMenuItem returns a single menu item by ID.
func (h *MenuHandler) GetMenuItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

type menuItemRequest struct {
	Day         string   `json:"day" validate:"required"`
	MealType    string   `json:"meal_type" validate:"required,oneof=Breakfast Lunch Dinner"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	DietaryTags []string `json:"dietary_tags" validate:"dive,oneof=Vegetarian Vegan Gluten-Free Non-Veg"`
	Calories    int      `json:"calories" validate:"gte=0"`
	BasePrice   float64  `json:"base_price" validate:"gte=0"`
}

// CreateMenuItem persists a new menu item.
func (h *MenuHandler) CreateMenuItem(c *fiber.Ctx) error {
	var req menuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	item := models.MenuItem{
		Day:         req.Day,
		MealType:    req.MealType,
		Name:        req.Name,
		Description: req.Description,
		DietaryTags: pq.StringArray(req.DietaryTags),
		Calories:    req.Calories,
		BasePrice:   req.BasePrice,
	}

	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateMenuItem updates an existing menu item.
func (h *MenuHandler) UpdateMenuItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	var req menuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	item.Day = req.Day
	item.MealType = req.MealType
	item.Name = req.Name
	item.Description = req.Description
	item.DietaryTags = pq.StringArray(req.DietaryTags)
	item.Calories = req.Calories
	item.BasePrice = req.BasePrice

	if err := h.db.Save(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteMenuItem removes a menu item. Hard delete: existing orders hold
// their own snapshots and are unaffected.
func (h *MenuHandler) DeleteMenuItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.MenuItem{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
