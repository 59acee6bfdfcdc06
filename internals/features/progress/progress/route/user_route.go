package route

import (
	"github.com/gofiber/fiber/v2"

	database "posyandu_backend/internals/databases"
	progressController "posyandu_backend/internals/features/progress/progress/controller"
	authMiddleware "posyandu_backend/internals/middlewares/auth"
)

func UserProgressRoutes(api fiber.Router, h database.Handles) {
	controller := progressController.NewProgressController(h)

	progress := api.Group("/progress", authMiddleware.AuthMiddleware(h.DB))

	progress.Post("/materials/:materiId/poins/:poinId/complete", controller.CompletePoin)
	progress.Post("/sub-materis/:id/complete", controller.CompleteSubMateri)
	progress.Get("/modules", controller.GetUserModulesProgress)
	progress.Get("/modules/:module_id", controller.GetModuleProgress)
	progress.Get("/materials/:sub_materi_id/access", controller.CheckSubMateriAccess)
}
