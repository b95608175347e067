package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"coursemap/internal/gateway/proxy"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готов, когда отвечают все сервисы за шлюзом.
func ReadinessProbe(upstreams ...*proxy.Upstream) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		services := fiber.Map{}
		ready := true
		for _, u := range upstreams {
			if err := u.Ping(ctx); err != nil {
				services[u.Name] = err.Error()
				ready = false
				continue
			}
			services[u.Name] = "ok"
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "services": services})
		}
		return c.JSON(fiber.Map{"status": "ready", "services": services})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
