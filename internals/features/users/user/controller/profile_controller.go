package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/users/user/dto"
	"posyandu_backend/internals/features/users/user/model"
	"posyandu_backend/internals/features/users/user/service"
	helper "posyandu_backend/internals/helpers"
	ossHelper "posyandu_backend/internals/helpers/oss"
)

type ProfileController struct {
	Handles  database.Handles
	OSS      *ossHelper.Service
	validate *validator.Validate
}

func NewProfileController(h database.Handles, oss *ossHelper.Service) *ProfileController {
	return &ProfileController{Handles: h, OSS: oss, validate: validator.New()}
}

// GET /api/v1/users/me
func (ctrl *ProfileController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := ctrl.Handles.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, helper.CodeNotFound, "User tidak ditemukan")
	}

	profile, err := service.EnsureProfile(ctrl.Handles.DB, ctrl.Handles.Admin, user, user.UserName)
	if err != nil {
		log.Printf("[ERROR] ensure profile: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil profil")
	}

	return helper.Success(c, "Profil ditemukan", fiber.Map{
		"user":    dto.ToUserDTO(user),
		"profile": dto.ToProfileDTO(*profile),
	})
}

// PUT /api/v1/users/me
func (ctrl *ProfileController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.Handles.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, helper.CodeNotFound, "User tidak ditemukan")
	}

	email := req.Email
	if email == "" {
		email = user.Email
	}

	profile := model.ProfileModel{
		ProfileID:       user.ID,
		ProfileFullName: req.FullName,
		ProfilePhone:    strPtrOrNil(req.Phone),
		ProfileEmail:    email,
		ProfileAddress:  strPtrOrNil(req.Address),
		ProfileRole:     user.Role,
	}

	if err := service.UpsertProfile(ctrl.Handles.DB, ctrl.Handles.Admin, &profile); err != nil {
		log.Printf("[ERROR] upsert profile: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menyimpan profil")
	}

	return helper.Success(c, "Profil berhasil diperbarui", dto.ToProfileDTO(profile))
}

// POST /api/v1/users/me/photo
func (ctrl *ProfileController) UploadPhoto(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}
	if ctrl.OSS == nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Object storage belum dikonfigurasi")
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "File photo wajib diupload")
	}
	if fh.Size > ossHelper.MaxProfilePhotoSize {
		return helper.Error(c, fiber.StatusRequestEntityTooLarge, helper.CodePayloadTooLarge,
			"Foto profil maksimal 5MB")
	}

	var user model.UserModel
	if err := ctrl.Handles.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, helper.CodeNotFound, "User tidak ditemukan")
	}

	profile, err := service.EnsureProfile(ctrl.Handles.DB, ctrl.Handles.Admin, user, user.UserName)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil profil")
	}

	url, _, err := ctrl.OSS.UploadFormFile(c.UserContext(), "profile-photos", fh, ossHelper.MaxProfilePhotoSize)
	if err != nil {
		log.Printf("[ERROR] upload foto profil: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal upload foto profil")
	}

	oldURL := profile.ProfilURL
	profile.ProfilURL = &url
	if err := service.UpsertProfile(ctrl.Handles.DB, ctrl.Handles.Admin, profile); err != nil {
		// DB gagal setelah upload: coba hapus objek yang barusan naik (best-effort)
		if delErr := ctrl.OSS.DeleteByPublicURL(c.UserContext(), url); delErr != nil {
			log.Printf("[WARN] cleanup foto profil gagal: %v", delErr)
		}
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menyimpan foto profil")
	}

	// Foto lama dihapus best-effort, kegagalan hanya dilog
	if oldURL != nil && *oldURL != "" {
		if delErr := ctrl.OSS.DeleteByPublicURL(c.UserContext(), *oldURL); delErr != nil {
			log.Printf("[WARN] hapus foto profil lama gagal: %v", delErr)
		}
	}

	return helper.Success(c, "Foto profil berhasil diupload", fiber.Map{
		"profil_url": url,
	})
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
