package main

import (
	"log"
	"strings"

	"farmstore-backend/internal/apikey"
	"farmstore-backend/internal/audit"
	"farmstore-backend/internal/auth"
	"farmstore-backend/internal/cache"
	"farmstore-backend/internal/cart"
	"farmstore-backend/internal/catalog"
	"farmstore-backend/internal/config"
	"farmstore-backend/internal/database"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/order"
	"farmstore-backend/internal/stockbatch"
	"farmstore-backend/internal/support"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	blacklist := cache.NewTokenBlacklist(cfg.RedisAddress)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Api-Key",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/refresh", auth.RefreshHandler(cfg))

	// Public storefront support
	api.Post("/contact-us", support.ContactUsHandler())
	api.Post("/enquiries", support.CreateEnquiryHandler())

	// Public catalog
	api.Get("/products", catalog.ListProductsHandler())
	api.Get("/products/count", catalog.CountProductsHandler())
	api.Get("/products/best-sellers", catalog.BestSellersHandler())
	api.Get("/products/:id", catalog.GetProductHandler())
	api.Get("/products/:id/image", catalog.ProductImageHandler(cfg))

	// Storefront agent routes, guarded by API key. Grouped by prefix so the
	// key check never leaks onto the staff routes below.
	carts := api.Group("/carts", apikey.RequireAPIKey())
	carts.Post("/", cart.CreateCartHandler())
	carts.Get("/:cartUniqueId", cart.GetCartHandler())
	carts.Delete("/:cartUniqueId", cart.DeleteCartHandler())

	orders := api.Group("/orders", apikey.RequireAPIKey())
	orders.Post("/", order.PlaceOrderByCartHandler())
	orders.Get("/:orderUniqueId", order.OrderDetailsHandler())
	orders.Post("/:orderUniqueId/confirm", order.ConfirmByCustomerHandler())

	// Authenticated staff routes
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg, blacklist))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler(blacklist))
	protected.Post("/auth/reset-password", auth.ResetPasswordHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Catalog management
	adminRoutes.Post("/products", catalog.CreateProductHandler(cfg))
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler(cfg))
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Stock batches
	adminRoutes.Get("/stock-batches", stockbatch.ListBatchesHandler())
	adminRoutes.Get("/stock-batches/count", stockbatch.CountBatchesHandler())
	adminRoutes.Post("/stock-batches", stockbatch.CreateBatchHandler())
	adminRoutes.Put("/stock-batches/:id", stockbatch.UpdateBatchHandler())
	adminRoutes.Delete("/stock-batches/:id", stockbatch.DeleteBatchHandler())

	// Orders
	adminRoutes.Get("/orders", order.ListOrdersHandler())
	adminRoutes.Get("/orders/count", order.CountOrdersHandler())
	adminRoutes.Post("/orders", order.PlaceOrderDirectHandler())
	adminRoutes.Get("/orders/:orderUniqueId", order.OrderDetailsHandler())
	adminRoutes.Post("/orders/:orderUniqueId/confirm", order.ConfirmByAdminHandler())
	adminRoutes.Post("/orders/:orderUniqueId/revert-confirmation", order.RevertConfirmationHandler())
	adminRoutes.Post("/orders/:orderUniqueId/ship", order.MarkShippedHandler())
	adminRoutes.Post("/orders/:orderUniqueId/deliver", order.MarkDeliveredHandler())
	adminRoutes.Post("/orders/:orderUniqueId/cancel", order.CancelOrderHandler())

	// Support inbox
	adminRoutes.Get("/contact-messages", support.ListContactMessagesHandler())
	adminRoutes.Get("/enquiries", support.ListEnquiriesHandler())

	// API keys for storefront agents
	adminRoutes.Post("/api-keys", apikey.GenerateKeyHandler())
	adminRoutes.Get("/api-keys", apikey.ListKeysHandler())
	adminRoutes.Post("/api-keys/:id/revoke", apikey.RevokeKeyHandler())
	adminRoutes.Post("/api-keys/:id/refresh", apikey.RefreshKeyHandler())

	// Audit trail
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Fatal(app.Listen(":" + cfg.HTTPPort))
}
