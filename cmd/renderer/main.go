package main

import (
	"fmt"
	"log"
	"time"

	"coursemap/internal/common/config"
	"coursemap/internal/common/middleware"
	"coursemap/internal/exporter/assets"
	"coursemap/internal/exporter/handlers"
	"coursemap/internal/exporter/pattern"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Renderer Service
// ============================================================

func main() {
	cfg := config.Load()
	port := cfg.PortOr("3001")

	cache := assets.NewCache(cfg.AssetsDir, assets.DefaultMaxSide)
	if err := cache.Load(pattern.AssetNames()...); err != nil {
		log.Fatalf("load assets: %v", err)
	}
	log.Printf("[ASSETS] %d assets loaded from %s", len(cache.Names()), cfg.AssetsDir)

	renderHandler := handlers.NewRenderHandler(cfg.Export, cache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    32 * 1024 * 1024,
		AppName:      "Renderer Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready", "assets": len(cache.Names())})
	})

	// ============================================================
	// Render Routes
	// ============================================================

	render := app.Group("/render")
	render.Post("/course", renderHandler.CourseMap)
	render.Post("/tee-sign", renderHandler.TeeSign)
	render.Post("/print", renderHandler.Print)
	render.Post("/hole-page", renderHandler.HolePage)
	render.Post("/archive", renderHandler.Archive)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting Renderer Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
