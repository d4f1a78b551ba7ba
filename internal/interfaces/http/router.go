package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/vendofy-api/internal/application/auth"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/ordering"
	"github.com/jhoicas/vendofy-api/internal/application/pricing"
	"github.com/jhoicas/vendofy-api/internal/application/usecase"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	SettingsUC *usecase.SettingsUseCase
	Pricing    *pricing.Service
	Orders     *ordering.UseCase
	Denylist   repository.TokenDenylist
	JWTSecret  string
	// LoginRateLimit intentos de login por minuto e IP; 0 desactiva el límite.
	LoginRateLimit int
}

const (
	admin       = entity.RoleAdmin
	distributor = entity.RoleDistributor
	customer    = entity.RoleCustomer
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público con límite por IP)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	if deps.LoginRateLimit > 0 {
		authGroup.Post("/login", loginLimiter(deps.LoginRateLimit), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token). Auth por grupo: lo que no existe bajo /api es 404.
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.Denylist)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", requireAuth)
	users.Post("/", RequireRole(admin, distributor), userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products", requireAuth)
	products.Post("/", RequireRole(admin), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(admin), productHandler.Update)
	products.Post("/:id/review", RequireSuperAdmin(), productHandler.Review)

	// Pricing
	pricingHandler := NewPricingHandler(deps.Pricing)
	pr := api.Group("/pricing", requireAuth)
	pr.Get("/resolve", pricingHandler.Resolve)
	pr.Put("/admin", RequireRole(admin), pricingHandler.SetAdminPricing)
	pr.Get("/admin", RequireRole(admin), pricingHandler.ListAdminPricing)
	pr.Put("/customers", RequireRole(distributor), pricingHandler.SetCustomerPricing)
	pr.Get("/customers/:customer_id", RequireRole(distributor), pricingHandler.ListCustomerPricing)
	pr.Delete("/customers/:customer_id/:product_id", RequireRole(distributor), pricingHandler.DeleteCustomerPricing)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders)
	orders := api.Group("/orders", requireAuth)
	orders.Post("/", RequireRole(customer), orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Post("/mark-for-today", RequireRole(distributor), orderHandler.MarkForToday)
	orders.Post("/send-to-admin", RequireRole(distributor), orderHandler.SendToAdmin)
	orders.Post("/mark-received", RequireRole(distributor, admin), orderHandler.MarkReceived)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/pdf", orderHandler.DeliveryNote)
	orders.Patch("/:id/delivery-date", RequireRole(distributor), orderHandler.UpdateDeliveryDate)
	orders.Post("/:id/received", RequireRole(distributor, admin), orderHandler.MarkOneReceived)
	orders.Post("/:id/customer-received", RequireRole(customer), orderHandler.CustomerMarkReceived)
	orders.Patch("/:id/payment", RequireRole(customer), orderHandler.UpdatePayment)

	// Settings
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings := api.Group("/settings", requireAuth, RequireRole(admin))
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", settingsHandler.Update)
	settings.Get("/changes", settingsHandler.ListChanges)
	settings.Post("/changes/:id/review", RequireSuperAdmin(), settingsHandler.Review)
}

func loginLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos de login, espera un minuto"})
		},
	})
}
