package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"posyandu_backend/internals/configs"
	authModel "posyandu_backend/internals/features/users/auth/model"
	userModel "posyandu_backend/internals/features/users/user/model"
	userService "posyandu_backend/internals/features/users/user/service"
	helper "posyandu_backend/internals/helpers"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

var validate = validator.New()

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

func buildAccessClaims(u userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       u.ID.String(),
		"user_name": u.UserName,
		"role":      u.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

func issueTokenPair(u userModel.UserModel, now time.Time) (access, refresh string, err error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return "", "", err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return "", "", err
	}

	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(u, now)).
		SignedString([]byte(jwtSecret))
	if err != nil {
		return "", "", err
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(u.ID, now)).
		SignedString([]byte(refreshSecret))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func storeRefreshToken(db *gorm.DB, c *fiber.Ctx, userID uuid.UUID, refresh, refreshSecret string, now time.Time) error {
	return db.Create(&authModel.RefreshTokenModel{
		UserID:    userID,
		TokenHash: computeRefreshHash(refresh, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(c.Get("User-Agent")),
		IP:        strptr(c.IP()),
	}).Error
}

func setAuthCookies(c *fiber.Ctx, access, refresh string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    access,
		Expires:  now.Add(accessTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Expires:  now.Add(refreshTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}

/* ==========================
   REGISTER
========================== */

type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// Register membuat identitas baru + profil lazy.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}

	var count int64
	if err := db.Model(&userModel.UserModel{}).Where("email = ?", strings.ToLower(input.Email)).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal cek email")
	}
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, helper.CodeConflict, "Email sudah terdaftar")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal memproses password")
	}

	user := userModel.UserModel{
		UserName: input.UserName,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    strptr(strings.TrimSpace(input.Phone)),
		Password: string(hashed),
	}
	user.SetDefaultValues()

	if err := db.Create(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat akun")
	}

	// Profil lazy: kalau trigger signup tidak membuatnya, kita yang buat.
	if _, err := userService.EnsureProfile(db, nil, user, input.FullName); err != nil {
		log.Printf("[WARN] ensure profile saat register gagal: %v", err)
	}

	return helper.Created(c, "Registrasi berhasil", fiber.Map{
		"user_id":   user.ID,
		"user_name": user.UserName,
		"email":     user.Email,
		"role":      user.Role,
	})
}

/* ==========================
   LOGIN
========================== */

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // email atau nomor HP
	Password   string `json:"password" validate:"required"`
}

// Login menukar kredensial (email atau phone) dengan pasangan token.
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}

	ident := strings.TrimSpace(input.Identifier)
	var user userModel.UserModel
	q := db.Where("email = ?", strings.ToLower(ident))
	if !strings.Contains(ident, "@") {
		q = db.Where("phone = ?", ident)
	}
	if err := q.First(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Email/nomor HP atau password salah")
	}

	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, helper.CodeForbidden, "Akun Anda telah dinonaktifkan")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Email/nomor HP atau password salah")
	}

	now := nowUTC()
	access, refresh, err := issueTokenPair(user, now)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat token")
	}

	refreshSecret, _ := getRefreshSecret()
	if err := storeRefreshToken(db, c, user.ID, refresh, refreshSecret, now); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal menyimpan sesi")
	}

	setAuthCookies(c, access, refresh, now)

	return helper.Success(c, "Login berhasil", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"user": fiber.Map{
			"id":        user.ID,
			"user_name": user.UserName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

/* ==========================
   REFRESH (rotation)
========================== */

// RefreshToken merotasi pasangan token; hash lama dihapus, hash baru disimpan.
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	refreshCookie := helper.GetRefreshTokenFromCookie(c)
	if refreshCookie == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		refreshCookie = strings.TrimSpace(body.RefreshToken)
	}
	if refreshCookie == "" {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Refresh token tidak ada")
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, err.Error())
	}

	tok, err := jwt.Parse(refreshCookie, func(t *jwt.Token) (any, error) {
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Refresh token invalid")
	}

	// Pastikan hash refresh ada di DB dan belum dicabut
	h := computeRefreshHash(refreshCookie, refreshSecret)
	var stored authModel.RefreshTokenModel
	if err := db.Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", h, nowUTC()).
		First(&stored).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Refresh token tidak dikenal")
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, helper.CodeForbidden, "Akun dinonaktifkan")
	}

	// ROTATE: hapus token lama
	if err := db.Delete(&authModel.RefreshTokenModel{}, "token_hash = ?", h).Error; err != nil {
		log.Printf("[refresh] delete old hash failed: %v", err)
	}

	now := nowUTC()
	newAccess, newRefresh, err := issueTokenPair(user, now)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal membuat token baru")
	}
	if err := storeRefreshToken(db, c, user.ID, newRefresh, refreshSecret, now); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal simpan refresh baru")
	}

	setAuthCookies(c, newAccess, newRefresh, now)

	return helper.Success(c, "Token diperbarui", fiber.Map{
		"access_token":  newAccess,
		"refresh_token": newRefresh,
	})
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklist access token + cabut refresh token aktif.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	raw := helper.GetRawAccessToken(c)
	if raw != "" {
		if err := db.Create(&authModel.TokenBlacklistModel{
			Token:     raw,
			ExpiredAt: nowUTC().Add(accessTTLDefault),
		}).Error; err != nil {
			log.Printf("[logout] blacklist insert failed: %v", err)
		}
	}

	now := nowUTC()
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error; err != nil {
		log.Printf("[logout] revoke refresh failed: %v", err)
	}

	c.ClearCookie("access_token", "refresh_token")
	return helper.Success(c, "Logout berhasil", nil)
}

/* ==========================
   CHANGE PASSWORD
========================== */

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Unauthorized")
	}

	var input ChangePasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, helper.CodeValidationError, "Body request tidak valid")
	}
	if err := validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, helper.CodeNotFound, "User tidak ditemukan")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Password lama salah")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal memproses password")
	}

	if err := db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", string(hashed)).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Gagal update password")
	}

	return helper.Success(c, "Password berhasil diubah", nil)
}
