package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warehouse/internal/config"
	applog "warehouse/internal/log"
)

// Routes mounts every endpoint on app. Middleware is the caller's business.
func Routes(app *fiber.App, d *Deps, cfg config.Config) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if cfg.PrometheusEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Printable pages
	app.Get("/sales/:id/receipt", d.SaleHandler.Receipt)
	app.Get("/reports/daily-closing", d.ReportHandler.ClosingPage)

	api := app.Group("/api/v1")

	api.Get("/products", d.ProductHandler.List)
	api.Post("/products", d.ProductHandler.Create)
	api.Get("/products/:id", d.ProductHandler.Get)
	api.Put("/products/:id", d.ProductHandler.Update)
	api.Delete("/products/:id", d.ProductHandler.Delete)

	availLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon", "kind": "rate_limited"})
		},
	})
	api.Get("/availability", availLimiter, d.InventoryHandler.Check)
	api.Get("/inventory", d.InventoryHandler.Overview)
	api.Get("/inventory/adjustments", d.InventoryHandler.Adjustments)
	api.Post("/inventory/:id/adjust", d.InventoryHandler.Adjust)

	api.Get("/cart", d.CartHandler.View)
	api.Delete("/cart", d.CartHandler.Clear)
	api.Post("/cart/items", d.CartHandler.Add)
	api.Delete("/cart/items/:id", d.CartHandler.Remove)
	api.Post("/cart/checkout", d.CartHandler.Checkout)

	api.Get("/sales", d.SaleHandler.List)
	api.Get("/sales/:id", d.SaleHandler.Get)

	api.Get("/reports", d.ReportHandler.List)
	api.Get("/reports/period", d.ReportHandler.Period)
	api.Get("/reports/daily-closing", d.ReportHandler.DailyClosing)
	api.Post("/reports/daily-closing", d.ReportHandler.SaveDailyClosing)
	api.Get("/dashboard", d.ReportHandler.Dashboard)

	api.Get("/checkouts", d.CheckoutHandler.List)
	api.Post("/checkouts/recover", d.CheckoutHandler.Recover)

	app.Use(NotFound)
}
