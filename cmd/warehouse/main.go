package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"warehouse/internal/config"
	"warehouse/internal/http/handlers"
	applog "warehouse/internal/log"
	"warehouse/internal/repos"
	"warehouse/web"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx := context.Background()
	st, closer, err := repos.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	deps := handlers.NewDeps(st, cfg)

	// Settle checkouts a previous run left half written.
	if n, err := deps.Sales.Recover(ctx); err != nil {
		applog.Error(nil, "checkouts.recover.fail", err, nil)
	} else if n > 0 {
		applog.Warn(nil, "checkouts.recover", map[string]any{"settled": n})
	}

	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || strings.HasPrefix(p, "/metrics")
		},
	}))

	handlers.Routes(app, deps, cfg)

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "store": cfg.StoreBackend})
	log.Fatal(app.Listen(":" + cfg.Port))
}
