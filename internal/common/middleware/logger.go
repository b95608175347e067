package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// LogFormat: общая строка access-лога всех сервисов.
const LogFormat = "[${time}] ${status} - ${latency} ${method} ${path} | in: ${reqHeader:Content-Length}B out: ${bytesSent}B | Content-Type: ${reqHeader:Content-Type}\n"

// Logger возвращает настроенный middleware для логирования запросов
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     LogFormat,
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
