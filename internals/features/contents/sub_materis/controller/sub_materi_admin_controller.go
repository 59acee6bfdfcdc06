package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "posyandu_backend/internals/databases"
	moduleModel "posyandu_backend/internals/features/contents/modules/model"
	"posyandu_backend/internals/features/contents/sub_materis/dto"
	"posyandu_backend/internals/features/contents/sub_materis/model"
	helper "posyandu_backend/internals/helpers"
)

type SubMateriAdminController struct {
	Handles  database.Handles
	validate *validator.Validate
}

func NewSubMateriAdminController(h database.Handles) *SubMateriAdminController {
	return &SubMateriAdminController{Handles: h, validate: validator.New()}
}

// POST /api/v1/materials
func (ctrl *SubMateriAdminController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubMateriRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	moduleID, _ := uuid.Parse(req.SubMateriModuleID)

	// Sub materi wajib menunjuk module yang ada
	var count int64
	if err := db.Model(&moduleModel.ModuleModel{}).
		Where("module_id = ?", moduleID).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek module")
	}
	if count == 0 {
		return helper.Error(c, fiber.StatusNotFound, "MODULE_NOT_FOUND", "Module tidak ditemukan")
	}

	subMateri := model.SubMateriModel{
		SubMateriModuleID:   moduleID,
		SubMateriTitle:      req.SubMateriTitle,
		SubMateriContent:    req.SubMateriContent,
		SubMateriOrderIndex: req.SubMateriOrderIndex,
		SubMateriPublished:  req.SubMateriPublished,
	}
	if err := db.Create(&subMateri).Error; err != nil {
		log.Printf("[ERROR] create sub materi: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat sub materi")
	}

	return helper.Created(c, "Sub materi berhasil dibuat", dto.ToSubMateriDTO(subMateri))
}

// PUT /api/v1/materials/:id
func (ctrl *SubMateriAdminController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	var req dto.UpdateSubMateriRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var subMateri model.SubMateriModel
	if err := db.First(&subMateri, "sub_materi_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "SUB_MATERI_NOT_FOUND", "Sub materi tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil sub materi")
	}

	updates := map[string]interface{}{}
	if req.SubMateriTitle != "" {
		updates["sub_materi_title"] = req.SubMateriTitle
	}
	if req.SubMateriContent != nil {
		updates["sub_materi_content"] = *req.SubMateriContent
	}
	if req.SubMateriOrderIndex != nil {
		updates["sub_materi_order_index"] = *req.SubMateriOrderIndex
	}
	if req.SubMateriPublished != nil {
		updates["sub_materi_published"] = *req.SubMateriPublished
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Tidak ada field yang diubah")
	}

	if err := db.Model(&subMateri).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update sub materi: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal update sub materi")
	}

	if err := db.First(&subMateri, "sub_materi_id = ?", id).Error; err == nil {
		return helper.Success(c, "Sub materi berhasil diperbarui", dto.ToSubMateriDTO(subMateri))
	}
	return helper.Success(c, "Sub materi berhasil diperbarui", nil)
}

// DELETE /api/v1/materials/:id
func (ctrl *SubMateriAdminController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	res := db.Delete(&model.SubMateriModel{}, "sub_materi_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete sub materi: %v", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus sub materi")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "SUB_MATERI_NOT_FOUND", "Sub materi tidak ditemukan")
	}

	return helper.Success(c, "Sub materi berhasil dihapus", nil)
}
