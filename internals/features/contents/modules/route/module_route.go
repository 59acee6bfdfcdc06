package route

import (
	"github.com/gofiber/fiber/v2"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	moduleController "posyandu_backend/internals/features/contents/modules/controller"
	authMiddleware "posyandu_backend/internals/middlewares/auth"
)

func ModuleRoutes(api fiber.Router, h database.Handles) {
	reader := moduleController.NewModuleController(h)
	admin := moduleController.NewModuleAdminController(h)

	modules := api.Group("/modules")

	// Baca: JWT opsional, admin melihat draft
	modules.Get("/", authMiddleware.OptionalAuthMiddleware(h.DB), reader.GetAll)
	modules.Get("/:id", authMiddleware.OptionalAuthMiddleware(h.DB), reader.GetByID)

	// CRUD: khusus admin
	adminOnly := []fiber.Handler{
		authMiddleware.AuthMiddleware(h.DB),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("kelola module"), constants.AdminRoles...),
	}
	modules.Post("/", append(adminOnly, admin.Create)...)
	modules.Put("/:id", append(adminOnly, admin.Update)...)
	modules.Delete("/:id", append(adminOnly, admin.Delete)...)
}
