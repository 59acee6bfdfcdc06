package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Keys untuk c.Locals yang diisi middleware auth
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocRawToken = "raw_token"
)

var ErrNoUserInContext = errors.New("user_id tidak ada di context")

// GetUserUUID mengambil user_id hasil verifikasi middleware auth.
func GetUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Locals(LocUserID)
	if raw == nil {
		return uuid.Nil, ErrNoUserInContext
	}
	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, errors.New("user_id tidak valid dalam token")
		}
		return parsed, nil
	default:
		return uuid.Nil, errors.New("user_id tidak dikenali")
	}
}

// GetUserRole mengembalikan role dari context, kosong kalau tidak login.
func GetUserRole(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocUserRole).(string); ok {
		return role
	}
	return ""
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}

// GetRawAccessToken mengembalikan access token dari:
// 1) Locals("raw_token") yang diset middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get("Authorization")
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

// SetRawAccessToken menyimpan raw token ke Locals untuk dipakai downstream.
func SetRawAccessToken(c *fiber.Ctx, raw string) {
	c.Locals(LocRawToken, strings.TrimSpace(raw))
}

// GetRefreshTokenFromCookie ambil refresh token dari cookie.
func GetRefreshTokenFromCookie(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies("refresh_token"))
}
