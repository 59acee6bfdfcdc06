package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/modules/dto"
	"posyandu_backend/internals/features/contents/modules/model"
	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	helper "posyandu_backend/internals/helpers"
)

// ModuleController: pembaca hierarki konten (read-only).
type ModuleController struct {
	Handles database.Handles
}

func NewModuleController(h database.Handles) *ModuleController {
	return &ModuleController{Handles: h}
}

func callerIsAdmin(c *fiber.Ctx) bool {
	return constants.IsAdminRole(helper.GetUserRole(c))
}

// GET /api/v1/modules
func (ctrl *ModuleController) GetAll(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.Handles.DB.WithContext(c.UserContext()).Model(&model.ModuleModel{})
	if !callerIsAdmin(c) {
		q = q.Where("module_published = ?", true)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(module_title) LIKE ?", like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghitung module")
	}

	var modules []model.ModuleModel
	if err := q.Order("module_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&modules).Error; err != nil {
		log.Printf("[ERROR] list modules: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil module")
	}

	return helper.Success(c, "Daftar module", fiber.Map{
		"modules":    dto.ToModuleDTOs(modules),
		"pagination": helper.BuildPagination(paging, total, len(modules)),
	})
}

// GET /api/v1/modules/:id — module + sub-materi anak (difilter publish state).
func (ctrl *ModuleController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	isAdmin := callerIsAdmin(c)

	var module model.ModuleModel
	q := db.Where("module_id = ?", id)
	if !isAdmin {
		q = q.Where("module_published = ?", true)
	}
	if err := q.First(&module).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.Error(c, fiber.StatusNotFound, "MODULE_NOT_FOUND", "Module tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil module")
	}

	var subMateris []subMateriModel.SubMateriModel
	sq := db.Where("sub_materi_module_id = ?", module.ModuleID)
	if !isAdmin {
		sq = sq.Where("sub_materi_published = ?", true)
	}
	if err := sq.Order("sub_materi_order_index ASC").Find(&subMateris).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil sub materi")
	}

	return helper.Success(c, "Detail module", dto.ModuleDetailDTO{
		ModuleDTO:  dto.ToModuleDTO(module),
		SubMateris: dto.ToSubMateriSummaryDTOs(subMateris),
	})
}
