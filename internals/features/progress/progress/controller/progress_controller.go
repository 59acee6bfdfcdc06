package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/progress/progress/dto"
	"posyandu_backend/internals/features/progress/progress/service"
	helper "posyandu_backend/internals/helpers"
)

type ProgressController struct {
	Handles  database.Handles
	validate *validator.Validate
}

func NewProgressController(h database.Handles) *ProgressController {
	return &ProgressController{Handles: h, validate: validator.New()}
}

func (ctrl *ProgressController) db(c *fiber.Ctx) *gorm.DB {
	return ctrl.Handles.DB.WithContext(c.UserContext())
}

// POST /api/v1/progress/materials/:materiId/poins/:poinId/complete
func (ctrl *ProgressController) CompletePoin(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	subMateriID, err := helper.ParseUUIDParam(c, "materiId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "materiId tidak valid")
	}
	poinID, err := helper.ParseUUIDParam(c, "poinId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "poinId tidak valid")
	}

	var req dto.CompletePoinRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	moduleID, _ := uuid.Parse(req.ModuleID)

	result, err := service.CompletePoin(ctrl.db(c), userID, moduleID, subMateriID, poinID)
	if err != nil {
		log.Printf("[ERROR] complete poin: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menyimpan progres poin")
	}

	msg := "Poin selesai dicatat"
	if result.AlreadyCompleted {
		msg = "Poin sudah pernah diselesaikan"
	}
	return helper.Success(c, msg, fiber.Map{
		"progress":          result.Record,
		"already_completed": result.AlreadyCompleted,
	})
}

// POST /api/v1/progress/sub-materis/:id/complete
func (ctrl *ProgressController) CompleteSubMateri(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	subMateriID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "id tidak valid")
	}

	var req dto.CompleteSubMateriRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	moduleID, _ := uuid.Parse(req.ModuleID)

	saved, err := service.CompleteSubMateri(ctrl.db(c), userID, moduleID, subMateriID, service.RollupInput{
		ProgressPercentage: req.ModuleProgressPercentage,
		IsCompleted:        req.ModuleIsCompleted,
	})
	if err != nil {
		log.Printf("[ERROR] complete sub materi: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menyimpan progres materi")
	}

	return helper.Success(c, "Materi selesai dicatat", saved)
}

// GET /api/v1/progress/modules
func (ctrl *ProgressController) GetUserModulesProgress(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	rows, err := service.GetUserModulesProgress(ctrl.db(c), userID)
	if err != nil {
		log.Printf("[ERROR] get modules progress: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil progres")
	}

	return helper.Success(c, "Progres module", rows)
}

// GET /api/v1/progress/modules/:module_id
func (ctrl *ProgressController) GetModuleProgress(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	moduleID, err := helper.ParseUUIDParam(c, "module_id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "module_id tidak valid")
	}

	detail, err := service.GetModuleProgress(ctrl.db(c), userID, moduleID)
	if err != nil {
		log.Printf("[ERROR] get module progress: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil progres module")
	}

	return helper.Success(c, "Progres module", detail)
}

// GET /api/v1/progress/materials/:sub_materi_id/access
func (ctrl *ProgressController) CheckSubMateriAccess(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	subMateriID, err := helper.ParseUUIDParam(c, "sub_materi_id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "sub_materi_id tidak valid")
	}

	decision, err := service.CanAccessSubMateri(ctrl.db(c), userID, subMateriID)
	if err != nil {
		if errors.Is(err, service.ErrSubMateriNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "SUB_MATERI_NOT_FOUND", "Sub materi tidak ditemukan")
		}
		log.Printf("[ERROR] cek akses sub materi: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek akses")
	}

	return helper.Success(c, "Hasil cek akses", decision)
}
