package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	moduleModel "posyandu_backend/internals/features/contents/modules/model"
	poinModel "posyandu_backend/internals/features/contents/poins/model"
	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	progressModel "posyandu_backend/internals/features/progress/progress/model"
	quizModel "posyandu_backend/internals/features/quizzes/quizzes/model"
	userModel "posyandu_backend/internals/features/users/user/model"
	helper "posyandu_backend/internals/helpers"
)

type DashboardController struct {
	Handles database.Handles
}

func NewDashboardController(h database.Handles) *DashboardController {
	return &DashboardController{Handles: h}
}

// readHandle: statistik lintas user dibaca lewat handle admin kalau ada.
func (ctrl *DashboardController) readHandle() *gorm.DB {
	if ctrl.Handles.HasAdmin() {
		return ctrl.Handles.Admin
	}
	return ctrl.Handles.DB
}

// GET /api/v1/admin/dashboard/stats
func (ctrl *DashboardController) GetStats(c *fiber.Ctx) error {
	db := ctrl.readHandle().WithContext(c.UserContext())

	usersByRole := map[string]int64{}
	for _, role := range []string{constants.RolePengguna, constants.RoleAdmin, constants.RoleSuperadmin} {
		var n int64
		if err := db.Model(&userModel.UserModel{}).Where("role = ?", role).Count(&n).Error; err != nil {
			log.Printf("[ERROR] hitung user role %s: %v", role, err)
			return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
		}
		usersByRole[role] = n
	}

	var (
		totalModules     int64
		publishedModules int64
		totalSubMateris  int64
		publishedSubs    int64
		totalPoins       int64
		totalMedia       int64
	)
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&totalModules, db.Model(&moduleModel.ModuleModel{})},
		{&publishedModules, db.Model(&moduleModel.ModuleModel{}).Where("module_published = ?", true)},
		{&totalSubMateris, db.Model(&subMateriModel.SubMateriModel{})},
		{&publishedSubs, db.Model(&subMateriModel.SubMateriModel{}).Where("sub_materi_published = ?", true)},
		{&totalPoins, db.Model(&poinModel.PoinDetailModel{})},
		{&totalMedia, db.Model(&poinModel.MediaModel{})},
	}
	for _, item := range counts {
		if err := item.query.Count(item.dest).Error; err != nil {
			log.Printf("[ERROR] hitung konten: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
		}
	}

	var (
		totalAttempts     int64
		completedAttempts int64
		passedAttempts    int64
	)
	if err := db.Model(&quizModel.QuizAttemptModel{}).Count(&totalAttempts).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
	}
	if err := db.Model(&quizModel.QuizAttemptModel{}).
		Where("completed_at IS NOT NULL").Count(&completedAttempts).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
	}
	if err := db.Model(&quizModel.QuizAttemptModel{}).
		Where("completed_at IS NOT NULL AND is_passed = ?", true).Count(&passedAttempts).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
	}

	var avgScore *float64
	if completedAttempts > 0 {
		if err := db.Model(&quizModel.QuizAttemptModel{}).
			Where("completed_at IS NOT NULL").
			Select("AVG(score)").Scan(&avgScore).Error; err != nil {
			log.Printf("[WARN] hitung rata-rata skor: %v", err)
		}
	}

	var (
		poinCompletions      int64
		subMateriCompletions int64
	)
	if err := db.Model(&progressModel.UserPoinProgressModel{}).
		Where("is_completed = ?", true).Count(&poinCompletions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
	}
	if err := db.Model(&progressModel.UserSubMateriProgressModel{}).
		Where("is_completed = ?", true).Count(&subMateriCompletions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil statistik")
	}

	return helper.Success(c, "Statistik dashboard", fiber.Map{
		"users": fiber.Map{
			"by_role": usersByRole,
			"total":   usersByRole[constants.RolePengguna] + usersByRole[constants.RoleAdmin] + usersByRole[constants.RoleSuperadmin],
		},
		"contents": fiber.Map{
			"modules":               totalModules,
			"modules_published":     publishedModules,
			"modules_draft":         totalModules - publishedModules,
			"sub_materis":           totalSubMateris,
			"sub_materis_published": publishedSubs,
			"sub_materis_draft":     totalSubMateris - publishedSubs,
			"poins":                 totalPoins,
			"media":                 totalMedia,
		},
		"quizzes": fiber.Map{
			"attempts_total":     totalAttempts,
			"attempts_completed": completedAttempts,
			"attempts_passed":    passedAttempts,
			"average_score":      avgScore,
		},
		"progress": fiber.Map{
			"poin_completions":       poinCompletions,
			"sub_materi_completions": subMateriCompletions,
		},
	})
}
