package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/modules/dto"
	"posyandu_backend/internals/features/contents/modules/model"
	helper "posyandu_backend/internals/helpers"
)

type ModuleAdminController struct {
	Handles  database.Handles
	validate *validator.Validate
}

func NewModuleAdminController(h database.Handles) *ModuleAdminController {
	return &ModuleAdminController{Handles: h, validate: validator.New()}
}

// POST /api/v1/modules
func (ctrl *ModuleAdminController) Create(c *fiber.Ctx) error {
	var req dto.CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	base := helper.GenerateSlug(req.ModuleTitle)
	slug, err := helper.EnsureUniqueSlug(db, base, "modules", "module_slug")
	if err != nil {
		log.Printf("[ERROR] ensure unique slug: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat slug")
	}

	module := model.ModuleModel{
		ModuleTitle:           req.ModuleTitle,
		ModuleSlug:            slug,
		ModuleDescription:     req.ModuleDescription,
		ModulePublished:       req.ModulePublished,
		ModuleDurationMinutes: req.ModuleDurationMinutes,
		ModuleTotalLessons:    req.ModuleTotalLessons,
		ModuleMeta:            req.ModuleMeta,
	}
	if err := db.Create(&module).Error; err != nil {
		log.Printf("[ERROR] create module: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat module")
	}

	return helper.Created(c, "Module berhasil dibuat", dto.ToModuleDTO(module))
}

// PUT /api/v1/modules/:id
func (ctrl *ModuleAdminController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	var req dto.UpdateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var module model.ModuleModel
	if err := db.First(&module, "module_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.Error(c, fiber.StatusNotFound, "MODULE_NOT_FOUND", "Module tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil module")
	}

	updates := map[string]interface{}{}
	if req.ModuleTitle != "" && req.ModuleTitle != module.ModuleTitle {
		updates["module_title"] = req.ModuleTitle
		base := helper.GenerateSlug(req.ModuleTitle)
		slug, err := helper.EnsureUniqueSlug(db, base, "modules", "module_slug")
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat slug")
		}
		updates["module_slug"] = slug
	}
	if req.ModuleDescription != nil {
		updates["module_description"] = *req.ModuleDescription
	}
	if req.ModulePublished != nil {
		updates["module_published"] = *req.ModulePublished
	}
	if req.ModuleDurationMinutes != nil {
		updates["module_duration_minutes"] = *req.ModuleDurationMinutes
	}
	if req.ModuleTotalLessons != nil {
		updates["module_total_lessons"] = *req.ModuleTotalLessons
	}
	if len(req.ModuleMeta) > 0 {
		updates["module_meta"] = req.ModuleMeta
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Tidak ada field yang diubah")
	}

	if err := db.Model(&module).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update module: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal update module")
	}

	if err := db.First(&module, "module_id = ?", id).Error; err == nil {
		return helper.Success(c, "Module berhasil diperbarui", dto.ToModuleDTO(module))
	}
	return helper.Success(c, "Module berhasil diperbarui", nil)
}

// DELETE /api/v1/modules/:id — cascade ke anak terjadi di store.
func (ctrl *ModuleAdminController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	res := db.Delete(&model.ModuleModel{}, "module_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete module: %v", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus module")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "MODULE_NOT_FOUND", "Module tidak ditemukan")
	}

	return helper.Success(c, "Module berhasil dihapus", nil)
}
