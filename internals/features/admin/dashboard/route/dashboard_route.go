package route

import (
	"github.com/gofiber/fiber/v2"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/admin/dashboard/controller"
	"posyandu_backend/internals/middlewares/auth"
)

func DashboardRoutes(api fiber.Router, h database.Handles) {
	ctrl := controller.NewDashboardController(h)

	dashboard := api.Group("/admin/dashboard",
		auth.AuthMiddleware(h.DB),
		auth.OnlyRoles(constants.RoleErrorAdmin("dashboard admin"), constants.AdminRoles...),
	)
	dashboard.Get("/stats", ctrl.GetStats)
}
