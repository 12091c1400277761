package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/models"
	"github.com/example/messhall/internal/utils"
)

// AdminHandler manages admin reporting endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate sales statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var totalMeals int64
	if err := h.db.Model(&models.OrderItem{}).Count(&totalMeals).Error; err != nil {
		return err
	}

	// Monthly sales series for the dashboard chart.
	type monthlySale struct {
		Month string  `json:"month"`
		Sales float64 `json:"sales"`
	}
	var monthlySales []monthlySale
	if err := h.db.Model(&models.Order{}).
		Select("to_char(placed_at, 'Mon YYYY') as month, SUM(total_amount) as sales").
		Group("to_char(placed_at, 'Mon YYYY'), date_trunc('month', placed_at)").
		Order("date_trunc('month', placed_at) asc").
		Scan(&monthlySales).Error; err != nil {
		return err
	}

	var recentOrders []models.Order
	if err := h.db.Preload("Items").
		Order("placed_at desc").
		Limit(5).
		Find(&recentOrders).Error; err != nil {
		return err
	}

	type recentSale struct {
		ID           uuid.UUID `json:"id"`
		User         string    `json:"user"`
		ItemsSummary string    `json:"items_summary"`
		Amount       float64   `json:"amount"`
		Date         string    `json:"date"`
	}
	recentSales := make([]recentSale, 0, len(recentOrders))
	for _, order := range recentOrders {
		user := order.UserName
		if user == "" {
			user = order.UserEmail
		}
		names := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			names = append(names, item.Name)
		}
		recentSales = append(recentSales, recentSale{
			ID:           order.ID,
			User:         user,
			ItemsSummary: strings.Join(names, ", "),
			Amount:       order.TotalAmount,
			Date:         order.PlacedAt.Format("02/01/2006"),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":   totalUsers,
			"total_orders":  totalOrders,
			"total_meals":   totalMeals,
			"total_revenue": totalRevenue,
			"monthly_sales": monthlySales,
			"recent_sales":  recentSales,
		},
	})
}

// ListUsers returns all user profiles with their lifetime meal spend.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return err
	}

	type userReport struct {
		models.User
		TotalMealCost float64 `json:"total_meal_cost"`
	}

	var users []userReport
	if err := h.db.Model(&models.User{}).
		Select("users.*, COALESCE(SUM(orders.total_amount), 0) as total_meal_cost").
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Group("users.id").
		Order("users.display_name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Scan(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListAllOrders returns every order, newest first, optionally filtered by
// buyer email.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if email := c.Query("email"); email != "" {
		query = query.Where("user_email = ?", email)
	}

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

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Student Admin Staff"`
}

// UpdateUserRole assigns one of the three known roles to a user.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.db.Model(&user).Update("role", req.Role).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}
