package routes

import (
	"github.com/gofiber/fiber/v2"

	database "posyandu_backend/internals/databases"
	dashboardRoute "posyandu_backend/internals/features/admin/dashboard/route"
	moduleRoute "posyandu_backend/internals/features/contents/modules/route"
	poinRoute "posyandu_backend/internals/features/contents/poins/route"
	subMateriRoute "posyandu_backend/internals/features/contents/sub_materis/route"
	progressRoute "posyandu_backend/internals/features/progress/progress/route"
	quizRoute "posyandu_backend/internals/features/quizzes/quizzes/route"
	authRoute "posyandu_backend/internals/features/users/auth/route"
	userRoute "posyandu_backend/internals/features/users/user/route"
	ossHelper "posyandu_backend/internals/helpers/oss"
)

// SetupRoutes memasang semua route fitur di bawah /api/v1.
func SetupRoutes(app *fiber.App, h database.Handles, oss *ossHelper.Service) {
	api := app.Group("/api/v1")

	// auth & user
	authRoute.AuthRoutes(api, h)
	userRoute.UserRoutes(api, h, oss)
	userRoute.AdminUserRoutes(api, h)

	// konten
	moduleRoute.ModuleRoutes(api, h)
	subMateriRoute.SubMateriRoutes(api, h)
	subMateriRoute.SubMateriAdminRoutes(api, h)
	poinRoute.PoinRoutes(api, h)
	poinRoute.PoinAdminRoutes(api, h, oss)

	// progres & quiz
	progressRoute.UserProgressRoutes(api, h)
	quizRoute.QuizRoutes(api, h)
	quizRoute.QuizAdminRoutes(api, h)

	// admin
	dashboardRoute.DashboardRoutes(api, h)
}
