package route

import (
	"github.com/gofiber/fiber/v2"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/sub_materis/controller"
	"posyandu_backend/internals/middlewares/auth"
)

func SubMateriRoutes(api fiber.Router, h database.Handles) {
	readCtrl := controller.NewSubMateriController(h)

	materials := api.Group("/materials")
	materials.Get("/:id", auth.OptionalAuthMiddleware(h.DB), readCtrl.GetByID)
}

func SubMateriAdminRoutes(api fiber.Router, h database.Handles) {
	adminCtrl := controller.NewSubMateriAdminController(h)

	materials := api.Group("/materials",
		auth.AuthMiddleware(h.DB),
		auth.OnlyRoles(constants.RoleErrorAdmin("kelola sub materi"), constants.AdminRoles...),
	)
	materials.Post("/", adminCtrl.Create)
	materials.Put("/:id", adminCtrl.Update)
	materials.Delete("/:id", adminCtrl.Delete)
}
