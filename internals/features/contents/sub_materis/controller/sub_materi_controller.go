package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	poinModel "posyandu_backend/internals/features/contents/poins/model"
	"posyandu_backend/internals/features/contents/sub_materis/dto"
	"posyandu_backend/internals/features/contents/sub_materis/model"
	helper "posyandu_backend/internals/helpers"
)

type SubMateriController struct {
	Handles database.Handles
}

func NewSubMateriController(h database.Handles) *SubMateriController {
	return &SubMateriController{Handles: h}
}

type poinWithMedia struct {
	Poin  poinModel.PoinDetailModel `json:"poin"`
	Media []poinModel.MediaModel    `json:"media"`
}

// GET /api/v1/materials/:id — sub materi + poin terurut beserta media.
// 403 kalau belum publish dan caller bukan admin, 404 kalau tidak ada.
func (ctrl *SubMateriController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var subMateri model.SubMateriModel
	if err := db.First(&subMateri, "sub_materi_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "SUB_MATERI_NOT_FOUND", "Sub materi tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil sub materi")
	}

	isAdmin := constants.IsAdminRole(helper.GetUserRole(c))
	if !subMateri.SubMateriPublished && !isAdmin {
		return helper.Error(c, fiber.StatusForbidden, helper.CodeForbidden, "Sub materi belum dipublikasikan")
	}

	poins, err := loadPoinsWithMedia(db, subMateri.SubMateriID)
	if err != nil {
		log.Printf("[ERROR] load poins: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil poin")
	}

	return helper.Success(c, "Detail sub materi", fiber.Map{
		"sub_materi": dto.ToSubMateriDTO(subMateri),
		"poins":      poins,
	})
}

func loadPoinsWithMedia(db *gorm.DB, subMateriID interface{}) ([]poinWithMedia, error) {
	var poins []poinModel.PoinDetailModel
	if err := db.Where("poin_sub_materi_id = ?", subMateriID).
		Order("poin_order_index ASC").
		Find(&poins).Error; err != nil {
		return nil, err
	}

	out := make([]poinWithMedia, 0, len(poins))
	for _, p := range poins {
		var media []poinModel.MediaModel
		if err := db.Where("media_poin_id = ?", p.PoinID).
			Order("media_order_index ASC").
			Find(&media).Error; err != nil {
			return nil, err
		}
		out = append(out, poinWithMedia{Poin: p, Media: media})
	}
	return out, nil
}
