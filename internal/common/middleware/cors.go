package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// ExposedHeaders: заголовки экспорта, которые должен видеть браузерный клиент.
var ExposedHeaders = []string{"Content-Disposition", "X-Export-ID", "X-Export-Placeholder"}

// CORS разрешает указанные источники; без них: все (dev).
func CORS(origins ...string) fiber.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders: ExposedHeaders,
	})
}
