package main

import (
	"fmt"
	"log"
	"time"

	"coursemap/internal/common/config"
	"coursemap/internal/common/middleware"
	"coursemap/internal/gateway/handlers"
	"coursemap/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024 * 1024,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.Logger())

	renderer := proxy.NewUpstream("renderer", cfg.RendererURL)
	library := proxy.NewUpstream("library", cfg.LibraryURL)

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(renderer, library))
	app.Get("/health/startup", handlers.StartupProbe)

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(handlers.SpecPath))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Course Map API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Renderer Service
	api.Post("/render/:kind", renderer.Handler("/api/v1"))

	// Library Service
	toLibrary := library.Handler("/api/v1")
	api.Get("/courses", toLibrary)
	api.Post("/courses", toLibrary)
	api.Get("/courses/:id", toLibrary)
	api.Put("/courses/:id", toLibrary)
	api.Delete("/courses/:id", toLibrary)
	api.Post("/courses/:id/terrain", toLibrary)
	api.Get("/courses/:id/exports", toLibrary)
	api.Post("/courses/:id/exports", toLibrary)
	api.Get("/exports/:id", toLibrary)
	api.Get("/exports/:id/file", toLibrary)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /render to %s, /courses and /exports to %s", cfg.RendererURL, cfg.LibraryURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
