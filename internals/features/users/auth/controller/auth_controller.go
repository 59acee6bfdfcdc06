package controller

import (
	"github.com/gofiber/fiber/v2"

	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/users/auth/service"
)

type AuthController struct {
	Handles database.Handles
}

func NewAuthController(h database.Handles) *AuthController {
	return &AuthController{Handles: h}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.Handles.DB, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.Handles.DB, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.Handles.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.Handles.DB, c)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.Handles.DB, c)
}
