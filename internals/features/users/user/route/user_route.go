package route

import (
	"github.com/gofiber/fiber/v2"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	userController "posyandu_backend/internals/features/users/user/controller"
	ossHelper "posyandu_backend/internals/helpers/oss"
	authMiddleware "posyandu_backend/internals/middlewares/auth"
)

// UserRoutes: profil milik sendiri (wajib login).
func UserRoutes(api fiber.Router, h database.Handles, oss *ossHelper.Service) {
	controller := userController.NewProfileController(h, oss)

	me := api.Group("/users/me", authMiddleware.AuthMiddleware(h.DB))
	me.Get("/", controller.GetMe)
	me.Put("/", controller.UpdateMe)
	me.Post("/photo", controller.UploadPhoto)
}

// AdminUserRoutes: manajemen user, role-aware.
func AdminUserRoutes(api fiber.Router, h database.Handles) {
	controller := userController.NewAdminUserController(h)

	admin := api.Group("/admin/users",
		authMiddleware.AuthMiddleware(h.DB),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen user"), constants.AdminRoles...),
	)
	admin.Get("/", controller.GetAll)
	admin.Get("/:id", controller.GetByID)
	admin.Post("/", controller.Create)
	admin.Put("/:id", controller.Update)
	admin.Delete("/:id", controller.Delete)
}
