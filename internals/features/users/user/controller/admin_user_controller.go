package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/users/user/dto"
	"posyandu_backend/internals/features/users/user/model"
	helper "posyandu_backend/internals/helpers"
)

type AdminUserController struct {
	Handles  database.Handles
	validate *validator.Validate
}

func NewAdminUserController(h database.Handles) *AdminUserController {
	return &AdminUserController{Handles: h, validate: validator.New()}
}

// readHandle: baca lintas-user pakai handle privileged kalau ada.
func (ctrl *AdminUserController) readHandle() *gorm.DB {
	if ctrl.Handles.HasAdmin() {
		return ctrl.Handles.Admin
	}
	return ctrl.Handles.DB
}

// visibleScope membatasi hasil sesuai role pemanggil:
// - superadmin: admin + pengguna, tanpa dirinya dan tanpa superadmin lain
// - admin: hanya pengguna
func (ctrl *AdminUserController) visibleScope(c *fiber.Ctx, q *gorm.DB) (*gorm.DB, error) {
	callerRole := helper.GetUserRole(c)
	callerID, err := helper.GetUserUUID(c)
	if err != nil {
		return nil, err
	}

	switch callerRole {
	case constants.RoleSuperadmin:
		return q.Where("role IN ? AND id <> ?", []string{constants.RoleAdmin, constants.RolePengguna}, callerID), nil
	default:
		return q.Where("role = ?", constants.RolePengguna), nil
	}
}

// GET /api/v1/admin/users
func (ctrl *AdminUserController) GetAll(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.readHandle().Model(&model.UserModel{})
	q, err := ctrl.visibleScope(c, q)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghitung user")
	}

	var users []model.UserModel
	if err := q.Order("created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal mengambil user")
	}

	return helper.Success(c, "Daftar user", fiber.Map{
		"users":      dto.ToUserDTOs(users),
		"pagination": helper.BuildPagination(paging, total, len(users)),
	})
}

// GET /api/v1/admin/users/:id
func (ctrl *AdminUserController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	q := ctrl.readHandle().Model(&model.UserModel{})
	q, err = ctrl.visibleScope(c, q)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "USER_NOT_FOUND", "User tidak ditemukan")
	}

	return helper.Success(c, "Detail user", dto.ToUserDTO(user))
}

// POST /api/v1/admin/users
func (ctrl *AdminUserController) Create(c *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// Hanya superadmin boleh membuat akun admin
	if req.Role == constants.RoleAdmin && helper.GetUserRole(c) != constants.RoleSuperadmin {
		return helper.Error(c, fiber.StatusForbidden, helper.CodeForbidden,
			constants.RoleErrorSuperadmin("buat akun admin"))
	}

	var count int64
	if err := ctrl.Handles.DB.Model(&model.UserModel{}).
		Where("email = ?", strings.ToLower(req.Email)).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek email")
	}
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, helper.CodeConflict, "Email sudah terdaftar")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal memproses password")
	}

	user := model.UserModel{
		UserName: req.UserName,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strPtrOrNil(strings.TrimSpace(req.Phone)),
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}
	if err := ctrl.Handles.DB.Create(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat user")
	}

	return helper.Created(c, "User berhasil dibuat", dto.ToUserDTO(user))
}

// PUT /api/v1/admin/users/:id
func (ctrl *AdminUserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	q := ctrl.readHandle().Model(&model.UserModel{})
	q, err = ctrl.visibleScope(c, q)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "USER_NOT_FOUND", "User tidak ditemukan")
	}

	if req.Role == constants.RoleAdmin && helper.GetUserRole(c) != constants.RoleSuperadmin {
		return helper.Error(c, fiber.StatusForbidden, helper.CodeForbidden,
			constants.RoleErrorSuperadmin("ubah role jadi admin"))
	}

	updates := map[string]interface{}{}
	if req.UserName != "" {
		updates["user_name"] = req.UserName
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Tidak ada field yang diubah")
	}

	if err := ctrl.Handles.DB.Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal update user")
	}

	if err := ctrl.readHandle().First(&user, "id = ?", user.ID).Error; err == nil {
		return helper.Success(c, "User berhasil diperbarui", dto.ToUserDTO(user))
	}
	return helper.Success(c, "User berhasil diperbarui", nil)
}

// DELETE /api/v1/admin/users/:id
func (ctrl *AdminUserController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "ID tidak valid")
	}

	q := ctrl.readHandle().Model(&model.UserModel{})
	q, err = ctrl.visibleScope(c, q)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "USER_NOT_FOUND", "User tidak ditemukan")
	}

	if err := ctrl.Handles.DB.Delete(&model.UserModel{}, "id = ?", user.ID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menghapus user")
	}

	return helper.Success(c, "User berhasil dihapus", nil)
}
