package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/poins/dto"
	"posyandu_backend/internals/features/contents/poins/model"
	progressModel "posyandu_backend/internals/features/progress/progress/model"
	helper "posyandu_backend/internals/helpers"
)

type PoinController struct {
	Handles database.Handles
}

func NewPoinController(h database.Handles) *PoinController {
	return &PoinController{Handles: h}
}

// GET /api/v1/materials/:subMateriId/poins
// Poin terurut + media; untuk pengguna login non-admin ikut marker progresnya.
func (ctrl *PoinController) GetBySubMateri(c *fiber.Ctx) error {
	subMateriID, err := helper.ParseUUIDParam(c, "subMateriId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var poins []model.PoinDetailModel
	if err := db.Where("poin_sub_materi_id = ?", subMateriID).
		Order("poin_order_index ASC").
		Find(&poins).Error; err != nil {
		log.Printf("[ERROR] list poins: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil poin")
	}

	completed := ctrl.completedPoinSet(c, db)

	out := make([]dto.PoinWithMediaDTO, 0, len(poins))
	for _, p := range poins {
		item, err := ctrl.buildPoinWithMedia(db, p, completed)
		if err != nil {
			log.Printf("[ERROR] load media poin %s: %v", p.PoinID, err)
			return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil media")
		}
		out = append(out, item)
	}

	return helper.Success(c, "Daftar poin", out)
}

// GET /api/v1/poins/:id
func (ctrl *PoinController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var poin model.PoinDetailModel
	if err := db.First(&poin, "poin_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "POIN_NOT_FOUND", "Poin tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil poin")
	}

	completed := ctrl.completedPoinSet(c, db)
	item, err := ctrl.buildPoinWithMedia(db, poin, completed)
	if err != nil {
		log.Printf("[ERROR] load media poin %s: %v", poin.PoinID, err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil media")
	}

	return helper.Success(c, "Detail poin", item)
}

// completedPoinSet: poin yang sudah diselesaikan caller. nil untuk
// anonim/admin (marker tidak dilampirkan).
func (ctrl *PoinController) completedPoinSet(c *fiber.Ctx, db *gorm.DB) map[uuid.UUID]bool {
	if constants.IsAdminRole(helper.GetUserRole(c)) {
		return nil
	}
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return nil
	}

	var ids []uuid.UUID
	if err := db.Model(&progressModel.UserPoinProgressModel{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Pluck("poin_id", &ids).Error; err != nil {
		log.Printf("[WARN] load poin progress markers: %v", err)
		return nil
	}

	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (ctrl *PoinController) buildPoinWithMedia(db *gorm.DB, p model.PoinDetailModel, completed map[uuid.UUID]bool) (dto.PoinWithMediaDTO, error) {
	var media []model.MediaModel
	if err := db.Where("media_poin_id = ?", p.PoinID).
		Order("media_order_index ASC").
		Find(&media).Error; err != nil {
		return dto.PoinWithMediaDTO{}, err
	}

	item := dto.PoinWithMediaDTO{
		PoinDTO: dto.ToPoinDTO(p),
		Media:   dto.ToMediaDTOs(media),
	}
	if completed != nil {
		done := completed[p.PoinID]
		item.IsCompleted = &done
	}
	return item, nil
}
