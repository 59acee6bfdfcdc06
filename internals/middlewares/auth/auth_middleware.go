// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"posyandu_backend/internals/configs"
	authModel "posyandu_backend/internals/features/users/auth/model"
	helper "posyandu_backend/internals/helpers"
)

// AuthMiddleware mewajibkan access token valid; klaim disimpan ke Locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, err.Error())
		}

		// Cek blacklist (sekali per request)
		if c.Locals("token_checked") == nil {
			var existing authModel.TokenBlacklistModel
			if err := db.Where("token = ? AND deleted_at IS NULL", tokenString).First(&existing).Error; err == nil {
				log.Println("[WARNING] Token ditemukan di blacklist")
				return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, "Token sudah tidak berlaku")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] DB error saat cek blacklist:", err)
				return helper.Error(c, fiber.StatusInternalServerError, helper.CodeInternalError, "Internal Server Error")
			}
			c.Locals("token_checked", true)
		}

		claims, err := parseAccessClaims(tokenString)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, helper.CodeUnauthorized, err.Error())
		}

		storeClaimsToLocals(c, claims)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}

// OptionalAuthMiddleware memuat klaim kalau token ada & valid, tapi tidak
// pernah menolak request. Dipakai route konten publik (admin melihat draft).
func OptionalAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}

		var existing authModel.TokenBlacklistModel
		if err := db.Where("token = ? AND deleted_at IS NULL", tokenString).First(&existing).Error; err == nil {
			return c.Next()
		}

		claims, err := parseAccessClaims(tokenString)
		if err != nil {
			return c.Next()
		}

		storeClaimsToLocals(c, claims)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	const p = "Bearer "
	if strings.HasPrefix(auth, p) {
		if tok := strings.TrimSpace(auth[len(p):]); tok != "" {
			return tok, nil
		}
	}
	if tok := strings.TrimSpace(c.Cookies("access_token")); tok != "" {
		return tok, nil
	}
	return "", errors.New("Authorization header tidak ada")
}

func parseAccessClaims(tokenString string) (jwt.MapClaims, error) {
	secretKey := configs.JWTSecret
	if secretKey == "" {
		log.Println("[ERROR] JWT_SECRET kosong")
		return nil, errors.New("missing JWT secret")
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}); err != nil {
		return nil, errors.New("token tidak valid")
	}

	if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
		return nil, errors.New("token kedaluwarsa")
	}
	return claims, nil
}

// validateTokenExpiry cek exp dengan sedikit leeway untuk clock skew.
func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	expRaw, ok := claims["exp"]
	if !ok {
		return errors.New("exp claim tidak ada")
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		return errors.New("exp claim tidak valid")
	}
	expTime := time.Unix(int64(expFloat), 0)
	if time.Now().After(expTime.Add(leeway)) {
		return errors.New("token expired")
	}
	return nil
}

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		c.Locals(helper.LocUserID, sub)
	} else if id, ok := claims["user_id"].(string); ok && id != "" {
		c.Locals(helper.LocUserID, id)
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		c.Locals(helper.LocUserRole, role)
	}
	if name, ok := claims["user_name"].(string); ok && name != "" {
		c.Locals("user_name", name)
	}
}
