package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/poins/dto"
	"posyandu_backend/internals/features/contents/poins/model"
	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	helper "posyandu_backend/internals/helpers"
	ossHelper "posyandu_backend/internals/helpers/oss"
)

type PoinAdminController struct {
	Handles  database.Handles
	OSS      *ossHelper.Service
	validate *validator.Validate
}

func NewPoinAdminController(h database.Handles, oss *ossHelper.Service) *PoinAdminController {
	return &PoinAdminController{Handles: h, OSS: oss, validate: validator.New()}
}

// POST /api/v1/poins
func (ctrl *PoinAdminController) Create(c *fiber.Ctx) error {
	var req dto.CreatePoinRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())
	subMateriID, _ := uuid.Parse(req.PoinSubMateriID)

	var count int64
	if err := db.Model(&subMateriModel.SubMateriModel{}).
		Where("sub_materi_id = ?", subMateriID).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek sub materi")
	}
	if count == 0 {
		return helper.Error(c, fiber.StatusNotFound, "SUB_MATERI_NOT_FOUND", "Sub materi tidak ditemukan")
	}

	poin := model.PoinDetailModel{
		PoinSubMateriID:     subMateriID,
		PoinTitle:           req.PoinTitle,
		PoinContentHTML:     req.PoinContentHTML,
		PoinOrderIndex:      req.PoinOrderIndex,
		PoinDurationMinutes: req.PoinDurationMinutes,
	}
	if err := db.Create(&poin).Error; err != nil {
		log.Printf("[ERROR] create poin: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat poin")
	}

	return helper.Created(c, "Poin berhasil dibuat", dto.ToPoinDTO(poin))
}

// PUT /api/v1/poins/:id
func (ctrl *PoinAdminController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	var req dto.UpdatePoinRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var poin model.PoinDetailModel
	if err := db.First(&poin, "poin_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "POIN_NOT_FOUND", "Poin tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil poin")
	}

	updates := map[string]interface{}{}
	if req.PoinTitle != "" {
		updates["poin_title"] = req.PoinTitle
	}
	if req.PoinContentHTML != nil {
		updates["poin_content_html"] = *req.PoinContentHTML
	}
	if req.PoinOrderIndex != nil {
		updates["poin_order_index"] = *req.PoinOrderIndex
	}
	if req.PoinDurationMinutes != nil {
		updates["poin_duration_minutes"] = *req.PoinDurationMinutes
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Tidak ada field yang diubah")
	}

	if err := db.Model(&poin).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update poin: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal update poin")
	}

	if err := db.First(&poin, "poin_id = ?", id).Error; err == nil {
		return helper.Success(c, "Poin berhasil diperbarui", dto.ToPoinDTO(poin))
	}
	return helper.Success(c, "Poin berhasil diperbarui", nil)
}

// DELETE /api/v1/poins/:id
func (ctrl *PoinAdminController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	res := db.Delete(&model.PoinDetailModel{}, "poin_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete poin: %v", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus poin")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "POIN_NOT_FOUND", "Poin tidak ditemukan")
	}

	return helper.Success(c, "Poin berhasil dihapus", nil)
}

// POST /api/v1/poins/:id/media
// Upload multi-file (field "files"); tiap file diproses independen dan
// hasilnya dipisah {uploaded, failed}. Selalu 200 selama request valid.
func (ctrl *PoinAdminController) UploadMedia(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}
	if ctrl.OSS == nil {
		return helper.Error(c, fiber.StatusServiceUnavailable, helper.CodeInternalError, "Object storage belum dikonfigurasi")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var poin model.PoinDetailModel
	if err := db.First(&poin, "poin_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "POIN_NOT_FOUND", "Poin tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil poin")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Form multipart tidak valid")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Tidak ada file yang dikirim")
	}

	var nextOrder int
	if err := db.Model(&model.MediaModel{}).
		Where("media_poin_id = ?", poin.PoinID).
		Select("COALESCE(MAX(media_order_index), -1) + 1").
		Scan(&nextOrder).Error; err != nil {
		nextOrder = 0
	}

	summary := dto.MediaUploadSummary{
		Uploaded: []dto.UploadedMediaResult{},
		Failed:   []dto.FailedMediaResult{},
	}

	ctx := c.UserContext()
	for _, fh := range files {
		if fh.Size > ossHelper.MaxPoinMediaSize {
			summary.Failed = append(summary.Failed, dto.FailedMediaResult{
				Filename: fh.Filename,
				Reason:   fmt.Sprintf("file terlalu besar (max %d bytes)", ossHelper.MaxPoinMediaSize),
			})
			continue
		}

		url, contentType, err := ctrl.OSS.UploadFormFile(ctx, "poin-media", fh, ossHelper.MaxPoinMediaSize)
		if err != nil {
			log.Printf("[WARN] upload media %s gagal: %v", fh.Filename, err)
			summary.Failed = append(summary.Failed, dto.FailedMediaResult{
				Filename: fh.Filename,
				Reason:   "gagal upload ke object storage",
			})
			continue
		}

		media := model.MediaModel{
			MediaPoinID:           poin.PoinID,
			MediaType:             constants.DetectMediaTypeFromExt(fh.Filename),
			MediaURL:              url,
			MediaOrderIndex:       nextOrder,
			MediaOriginalFilename: fh.Filename,
			MediaMimeType:         contentType,
			MediaFileSize:         fh.Size,
		}
		if err := db.Create(&media).Error; err != nil {
			log.Printf("[ERROR] simpan media %s gagal: %v", fh.Filename, err)
			if delErr := ctrl.OSS.DeleteByPublicURL(ctx, url); delErr != nil {
				log.Printf("[WARN] cleanup objek %s gagal: %v", url, delErr)
			}
			summary.Failed = append(summary.Failed, dto.FailedMediaResult{
				Filename: fh.Filename,
				Reason:   "gagal menyimpan metadata media",
			})
			continue
		}

		nextOrder++
		summary.Uploaded = append(summary.Uploaded, dto.UploadedMediaResult{
			Filename: fh.Filename,
			Media:    dto.ToMediaDTO(media),
		})
	}

	msg := fmt.Sprintf("%d media terupload, %d gagal", len(summary.Uploaded), len(summary.Failed))
	return helper.Success(c, msg, summary)
}

// DELETE /api/v1/poins/:poinId/media/:mediaId
func (ctrl *PoinAdminController) DeleteMedia(c *fiber.Ctx) error {
	poinID, err := helper.ParseUUIDParam(c, "poinId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID poin tidak valid")
	}
	mediaID, err := helper.ParseUUIDParam(c, "mediaId")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID media tidak valid")
	}

	db := ctrl.Handles.DB.WithContext(c.UserContext())

	var media model.MediaModel
	if err := db.First(&media, "media_id = ? AND media_poin_id = ?", mediaID, poinID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "MEDIA_NOT_FOUND", "Media tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil media")
	}

	if err := db.Delete(&media).Error; err != nil {
		log.Printf("[ERROR] delete media: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus media")
	}

	// Objek di store dihapus best-effort setelah row DB hilang.
	if ctrl.OSS != nil && media.MediaURL != "" {
		if err := ctrl.OSS.DeleteByPublicURL(c.UserContext(), media.MediaURL); err != nil {
			log.Printf("[WARN] hapus objek media %s gagal: %v", media.MediaURL, err)
		}
	}

	return helper.Success(c, "Media berhasil dihapus", nil)
}
