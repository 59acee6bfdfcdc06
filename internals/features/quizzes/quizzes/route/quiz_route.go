package route

import (
	"github.com/gofiber/fiber/v2"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/quizzes/quizzes/controller"
	"posyandu_backend/internals/middlewares/auth"
)

func QuizRoutes(api fiber.Router, h database.Handles) {
	ctrl := controller.NewQuizController(h)

	quizzes := api.Group("/user-quizzes", auth.AuthMiddleware(h.DB))
	quizzes.Get("/:quizId/questions", ctrl.GetQuestions)
	quizzes.Post("/:quizId/start", ctrl.StartAttempt)
	quizzes.Post("/:quizId/submit", ctrl.SubmitAnswers)
	quizzes.Get("/:quizId/results", ctrl.GetResults)
}

func QuizAdminRoutes(api fiber.Router, h database.Handles) {
	adminCtrl := controller.NewQuizAdminController(h)

	quizzes := api.Group("/admin/quizzes",
		auth.AuthMiddleware(h.DB),
		auth.OnlyRoles(constants.RoleErrorAdmin("kelola quiz"), constants.AdminRoles...),
	)
	quizzes.Get("/", adminCtrl.GetAll)
	quizzes.Get("/:id", adminCtrl.GetByID)
	quizzes.Post("/", adminCtrl.Create)
	quizzes.Put("/:id", adminCtrl.Update)
	quizzes.Delete("/:id", adminCtrl.Delete)
	quizzes.Post("/:id/questions", adminCtrl.CreateQuestion)
	quizzes.Delete("/:id/questions/:questionId", adminCtrl.DeleteQuestion)
}
