package route

import (
	"github.com/gofiber/fiber/v2"

	database "posyandu_backend/internals/databases"
	authController "posyandu_backend/internals/features/users/auth/controller"
	"posyandu_backend/internals/middlewares"
	authMiddleware "posyandu_backend/internals/middlewares/auth"
)

func AuthRoutes(api fiber.Router, h database.Handles) {
	controller := authController.NewAuthController(h)

	auth := api.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), controller.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	auth.Post("/logout", authMiddleware.AuthMiddleware(h.DB), controller.Logout)
	auth.Post("/change-password", authMiddleware.AuthMiddleware(h.DB), controller.ChangePassword)
}
