package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/messhall/internal/config"
	"github.com/example/messhall/internal/handlers"
	"github.com/example/messhall/internal/middleware"
	"github.com/example/messhall/internal/models"
	"github.com/example/messhall/internal/repository"
	"github.com/example/messhall/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	mailService := services.NewMailService(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	paymentService := services.NewPaymentService(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)

	menuRepo := repository.NewMenuRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	userRepo := repository.NewUserRepo(db)

	checkoutService := services.NewCheckoutService(menuRepo, orderRepo, couponRepo, userRepo,
		paymentService, mailService, telegramService, cfg.BaseURL)
	couponService := services.NewCouponService(couponRepo, orderRepo)

	authHandler := handlers.NewAuthHandler(db, cfg)
	passwordResetHandler := handlers.NewPasswordResetHandler(db, mailService)
	menuHandler := handlers.NewMenuHandler(db)
	orderHandler := handlers.NewOrderHandler(db, checkoutService)
	couponHandler := handlers.NewCouponHandler(couponService)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", passwordResetHandler.ForgotPassword)
	auth.Post("/reset-password", passwordResetHandler.ResetPassword)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(db, cfg))

	// Menu browsing is available to every signed-in user; editing is
	// restricted to admins.
	menu := protected.Group("/menu")
	menu.Get("/", menuHandler.ListMenu)
	menu.Get("/:id", menuHandler.GetMenuItem)
	menu.Post("/", middleware.RequireRoles(models.RoleAdmin), menuHandler.CreateMenuItem)
	menu.Put("/:id", middleware.RequireRoles(models.RoleAdmin), menuHandler.UpdateMenuItem)
	menu.Delete("/:id", middleware.RequireRoles(models.RoleAdmin), menuHandler.DeleteMenuItem)

	protected.Post("/orders", orderHandler.Checkout)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Coupon validation is done by mess counter staff or admins.
	coupons := protected.Group("/coupons", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	coupons.Post("/redeem", couponHandler.Redeem)
	coupons.Get("/:code", couponHandler.GetCoupon)

	admin := protected.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.Get("/dashboard", adminHandler.DashboardStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/role", adminHandler.UpdateUserRole)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Get("/coupons/missing", couponHandler.ListOrdersMissingCoupon)
	admin.Post("/coupons/reissue/:orderId", couponHandler.ReissueCoupon)
}
