package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"coursemap/internal/common/config"
	"coursemap/internal/common/middleware"
	"coursemap/internal/library/handlers"
	"coursemap/internal/library/repository"
	"coursemap/internal/library/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Library Service
// ============================================================

func main() {
	cfg := config.Load()
	port := cfg.PortOr("3002")

	db, err := repository.OpenSQLite(cfg.LibraryDBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	fileStorage := service.NewFileStorage(cfg.StorageRoot)
	renderClient := service.NewRenderClient(cfg.RendererURL)
	libraryHandler := handlers.NewLibraryHandler(repo, fileStorage, service.NewExportTracker(), renderClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024 * 1024,
		AppName:      "Library Service",
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

	app.Get("/health/ready", libraryHandler.Ready)

	// ============================================================
	// Library Routes
	// ============================================================

	app.Post("/courses", libraryHandler.CreateCourse)
	app.Get("/courses", libraryHandler.ListCourses)
	app.Get("/courses/:id", libraryHandler.GetCourse)
	app.Put("/courses/:id", libraryHandler.UpdateCourse)
	app.Delete("/courses/:id", libraryHandler.DeleteCourse)
	app.Post("/courses/:id/terrain", libraryHandler.ImportTerrain)
	app.Post("/courses/:id/exports", libraryHandler.CreateExport)
	app.Get("/courses/:id/exports", libraryHandler.ListExports)
	app.Get("/exports/:id", libraryHandler.GetExport)
	app.Get("/exports/:id/file", libraryHandler.GetExportFile)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting Library Service on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Rendering through %s", cfg.RendererURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
