package route

import (
	"github.com/gofiber/fiber/v2"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/poins/controller"
	helperOSS "posyandu_backend/internals/helpers/oss"
	"posyandu_backend/internals/middlewares/auth"
)

func PoinRoutes(api fiber.Router, h database.Handles) {
	readCtrl := controller.NewPoinController(h)

	api.Get("/materials/:subMateriId/poins", auth.OptionalAuthMiddleware(h.DB), readCtrl.GetBySubMateri)
	api.Get("/poins/:id", auth.OptionalAuthMiddleware(h.DB), readCtrl.GetByID)
}

func PoinAdminRoutes(api fiber.Router, h database.Handles, oss *helperOSS.Service) {
	adminCtrl := controller.NewPoinAdminController(h, oss)

	poins := api.Group("/poins",
		auth.AuthMiddleware(h.DB),
		auth.OnlyRoles(constants.RoleErrorAdmin("kelola poin"), constants.AdminRoles...),
	)
	poins.Post("/", adminCtrl.Create)
	poins.Put("/:id", adminCtrl.Update)
	poins.Delete("/:id", adminCtrl.Delete)
	poins.Post("/:id/media", adminCtrl.UploadMedia)
	poins.Delete("/:poinId/media/:mediaId", adminCtrl.DeleteMedia)
}
