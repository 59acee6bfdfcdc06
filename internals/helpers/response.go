package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Kode respons stabil (dipakai frontend, jangan ganti sembarangan)
const (
	CodeOK               = "OK"
	CodeCreated          = "CREATED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
)

// ✅ Success Response (default 200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, CodeOK, message, data)
}

// ✅ Success Response 201 untuk created
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusCreated, CodeCreated, message, data)
}

func SuccessWithCode(c *fiber.Ctx, status int, code, message string, data interface{}) error {
	body := fiber.Map{
		"error":   false,
		"code":    code,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// ✅ Error Response sederhana
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"code":    code,
		"message": message,
	})
}

// ✅ Error Response dengan detail tambahan di data.details.
// Pesan internal tidak pernah menggantikan message utama.
func ErrorWithDetails(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"code":    code,
		"message": message,
		"data":    fiber.Map{"details": details},
	})
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, CodeValidationError, "Input tidak valid")
	}

	errorsMap := make(map[string]string)
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	return ErrorWithDetails(c, fiber.StatusBadRequest, CodeValidationError, "Validasi gagal", errorsMap)
}
