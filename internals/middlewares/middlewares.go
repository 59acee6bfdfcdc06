package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares pasang middleware dasar untuk semua route.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
